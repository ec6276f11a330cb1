// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

// cli.go sets up the command-line interface for Infrakeep using the
// Cobra library. The CLI is the host of the knowledge base's in-process
// call boundary: every manager operation is exposed as a subcommand
// taking a request and printing a structured result or a typed failure.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/infrakeep/infrakeep/internal/config"
	"github.com/infrakeep/infrakeep/internal/i18n"
	"github.com/infrakeep/infrakeep/internal/kb"
	"github.com/infrakeep/infrakeep/internal/logging"
)

var version = "dev" // set by the linker

var (
	cfgFile  string
	dataDir  string
	verbose  bool
	password string // --password for non-interactive credential commands

	appConfig config.Config
	manager   *kb.Manager
)

// setupServices loads configuration, initializes i18n and constructs the
// application-lifetime manager instance. It runs before every command.
func setupServices(cmd *cobra.Command, args []string) error {
	logging.SetVerbose(verbose)

	var explicit *string
	if cfgFile != "" {
		explicit = &cfgFile
	}

	var fromFile bool
	var err error
	appConfig, fromFile, err = config.LoadConfig(cmd, config.Defaults(), explicit)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if !fromFile {
		// First run: persist a default config so later runs have a file
		// to inspect and edit.
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			logging.Warnf("could not write default config file: %v", writeErr)
		}
	}
	if dataDir != "" {
		appConfig.DataDir = dataDir
	}

	i18n.Init(language())

	manager = kb.New(appConfig.DataDir, kb.WithPreferences(appConfig.Preferences))
	if err := manager.Initialize(); err != nil {
		return err
	}
	cobra.OnFinalize(func() {
		if manager != nil {
			manager.Close()
		}
	})
	return nil
}

func language() string {
	if appConfig.Language != "" {
		return appConfig.Language
	}
	return "en"
}

var rootCmd = &cobra.Command{
	Use:               "infrakeep",
	Short:             "Local encrypted infrastructure knowledge base",
	Long:              "Infrakeep extracts servers, SSH endpoints and credentials from your notes and keeps them in a local, encrypted knowledge base with AI-safe summaries.",
	PersistentPreRunE: setupServices,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the Infrakeep version",
	// The manager is not needed to print a version string.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("infrakeep %s\n", version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the active configuration and preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs := manager.Preferences()
		fmt.Printf("data_dir: %s\n", appConfig.DataDir)
		fmt.Printf("language: %s\n", language())
		fmt.Printf("auto_inject_context: %v\n", prefs.AutoInjectContext)
		fmt.Printf("show_ssh_suggestions: %v\n", prefs.ShowSSHSuggestions)
		fmt.Printf("default_terminal: %s\n", prefs.DefaultTerminal)
		fmt.Printf("confirm_ssh_commands: %v\n", prefs.ConfirmSSHCommands)
		fmt.Printf("auto_discover_credentials: %v\n", prefs.AutoDiscoverCredentials)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to an explicit config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the knowledge base directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the CLI.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logging.Errorf("%v", err)
		return err
	}
	return nil
}

// promptPassword reads the knowledge base password, preferring the
// --password flag and the INFRAKEEP_PASSWORD environment variable over
// an interactive no-echo prompt.
func promptPassword() (string, error) {
	if password != "" {
		return password, nil
	}
	if env := os.Getenv("INFRAKEEP_PASSWORD"); env != "" {
		return env, nil
	}
	fmt.Fprint(os.Stderr, i18n.T("unlock.prompt"))
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	pw := strings.TrimSpace(string(raw))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}
