// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/infrakeep/infrakeep/internal/i18n"
	"github.com/infrakeep/infrakeep/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <provider-id> <file>",
	Short: "Import a document and auto-discover servers",
	Long:  "Parses a text, markdown, JSON or YAML document, stores it on the provider as an audit record, and auto-creates a server for every section that yields both a name and an IP address.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		result, err := manager.ImportDocument(args[0], filepath.Base(args[1]), string(content))
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println(i18n.T("provider.not_found"))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: %d servers, %d domains, %d key mentions\n",
			i18n.T("import.success"),
			result.Document.Filename,
			len(result.CreatedServers),
			len(result.Document.Extracted.Domains),
			len(result.Document.Extracted.APIKeys))
		for _, srv := range result.CreatedServers {
			fmt.Printf("  + %s (%s)\n", srv.Name, srv.IP)
		}
		return nil
	},
}

var contextCmd = &cobra.Command{
	Use:   "context [query]",
	Short: "Print the AI-safe infrastructure summary",
	Long:  "Prints the redacted context block passed to the AI assistant: provider names, types, regions and server names only. With a query, narrows to matching providers.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var out string
		if len(args) == 1 {
			out = manager.GetRelevantContext(args[0])
		} else {
			out = manager.GenerateAIContext()
		}
		if out == "" {
			fmt.Println(i18n.T("context.empty"))
			return nil
		}
		fmt.Println(out)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search providers and servers (local view, unredacted)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := manager.Search(args[0])
		if len(results) == 0 {
			fmt.Println(i18n.T("search.no_results"))
			return nil
		}
		for _, res := range results {
			fmt.Printf("%s %s (%s)\n", res.Provider.Emoji, res.Provider.Name, res.Provider.Type)
			for _, srv := range res.Servers {
				fmt.Printf("  %s  %s  %s\n", srv.Name, srv.IP, srv.SSHCommand)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd, contextCmd, searchCmd)
}
