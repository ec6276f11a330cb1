// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/infrakeep/infrakeep/internal/i18n"
)

var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Write a compressed (zstd) JSON backup of the knowledge base",
	Long:  "Exports providers, encrypted credentials and preferences into a single Zstandard-compressed JSON file. Credentials stay encrypted; restoring them on different hardware yields records that cannot be decrypted there.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.OpenFile(args[0], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("create backup file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := manager.WriteBackup(f); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", i18n.T("backup.success"), args[0])
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore the knowledge base from a compressed JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open backup file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := manager.Restore(f); err != nil {
			return err
		}
		fmt.Println(i18n.T("restore.success"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd, restoreCmd)
}
