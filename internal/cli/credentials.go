// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infrakeep/infrakeep/internal/crypto"
	"github.com/infrakeep/infrakeep/internal/i18n"
	"github.com/infrakeep/infrakeep/internal/securestore"
	"github.com/infrakeep/infrakeep/internal/store"
)

var (
	credService    string
	passwordLength int
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the secure credential store",
	Long:  "Derives the encryption key from your password and this machine's fingerprint. A store copied to another machine cannot be unlocked with the password alone.",
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := promptPassword()
		if err != nil {
			return err
		}
		if err := manager.Unlock(pw); err != nil {
			return err
		}
		// Verify against existing records so a wrong password on a
		// populated store fails here, not on first credential access.
		// The check is not a credential read and must not refresh any
		// last-used timestamp.
		if err := manager.VerifyUnlock(); err != nil {
			if errors.Is(err, crypto.ErrAuthentication) {
				manager.Lock()
				return errors.New(i18n.T("unlock.failed"))
			}
			return err
		}
		fmt.Println(i18n.T("unlock.success"))
		return nil
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Zero the in-memory encryption key",
	Run: func(cmd *cobra.Command, args []string) {
		manager.Lock()
		fmt.Println(i18n.T("lock.success"))
	},
}

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage encrypted credentials",
}

// withUnlocked runs fn with the secure store unlocked, prompting for the
// password first. CLI invocations are separate processes, so the key
// never survives beyond one command.
func withUnlocked(fn func() error) error {
	pw, err := promptPassword()
	if err != nil {
		return err
	}
	if err := manager.Unlock(pw); err != nil {
		return err
	}
	defer manager.Lock()
	return fn()
}

var credentialAddCmd = &cobra.Command{
	Use:   "add <name> <value>",
	Short: "Encrypt and store a credential value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUnlocked(func() error {
			cred, err := manager.AddCredential(args[0], credService, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("%s %s (%s)\n", i18n.T("credential.added"), cred.Name, cred.ID)
			return nil
		})
	},
}

var credentialGetCmd = &cobra.Command{
	Use:   "get <credential-id>",
	Short: "Decrypt and print one credential value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUnlocked(func() error {
			value, err := manager.CredentialValue(args[0])
			if errors.Is(err, store.ErrNotFound) {
				fmt.Println(i18n.T("credential.not_found"))
				return nil
			}
			if errors.Is(err, securestore.ErrLocked) {
				return errors.New(i18n.T("credential.locked"))
			}
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		})
	},
}

var credentialListCmd = &cobra.Command{
	Use:   "list",
	Short: "List credential metadata (never values)",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, cred := range manager.Credentials() {
			fmt.Printf("%-24s %-14s created %s  %s\n", cred.Name, cred.Service, cred.CreatedAt.Format("2006-01-02"), cred.ID)
		}
		return nil
	},
}

var credentialDeleteCmd = &cobra.Command{
	Use:   "delete <credential-id>",
	Short: "Delete a credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUnlocked(func() error {
			removed, err := manager.DeleteCredential(args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Println(i18n.T("credential.not_found"))
				return nil
			}
			fmt.Println(i18n.T("credential.deleted"))
			return nil
		})
	},
}

var credentialGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a strong random password",
	// No manager or store access needed.
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := crypto.GeneratePassword(passwordLength)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", i18n.T("credential.generated"), pw)
		return nil
	},
}

func init() {
	credentialAddCmd.Flags().StringVar(&credService, "service", "unknown", "owning service tag")
	credentialGenerateCmd.Flags().IntVar(&passwordLength, "length", crypto.DefaultPasswordLength, "password length")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "knowledge base password (prefer INFRAKEEP_PASSWORD or the prompt)")

	credentialCmd.AddCommand(credentialAddCmd, credentialGetCmd, credentialListCmd, credentialDeleteCmd, credentialGenerateCmd)
	rootCmd.AddCommand(unlockCmd, lockCmd, credentialCmd)
}
