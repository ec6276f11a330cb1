// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infrakeep/infrakeep/internal/i18n"
	"github.com/infrakeep/infrakeep/internal/kb"
	"github.com/infrakeep/infrakeep/internal/model"
	"github.com/infrakeep/infrakeep/internal/store"
)

var (
	providerName      string
	providerRegion    string
	providerAccountID string
	providerConnKind  string
)

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Manage configured providers",
}

var providerAddCmd = &cobra.Command{
	Use:   "add <type>",
	Short: "Add a provider (aws, gcp, azure, ...)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn := model.Connection{
			Kind:      model.ConnectionKind(providerConnKind),
			Region:    providerRegion,
			AccountID: providerAccountID,
		}
		p, err := manager.AddProvider(model.ProviderType(args[0]), providerName, conn)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s %s (%s)\n", i18n.T("provider.added"), p.Emoji, p.Name, p.ID)
		return nil
	},
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		providers := manager.Providers()
		if len(providers) == 0 {
			fmt.Println(i18n.T("provider.none"))
			return nil
		}
		for _, p := range providers {
			fmt.Printf("%s  %-28s %-14s %-12s servers=%d  %s\n", p.Emoji, p.Name, p.Type, p.Category, len(p.Servers), p.ID)
		}
		return nil
	},
}

var providerShowCmd = &cobra.Command{
	Use:   "show <provider-id>",
	Short: "Show one provider with its servers and documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := manager.GetProvider(args[0])
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println(i18n.T("provider.not_found"))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s %s (%s, %s)\n", p.Emoji, p.Name, p.Type, p.Category)
		if p.Connection.Region != "" {
			fmt.Printf("  region: %s\n", p.Connection.Region)
		}
		for _, srv := range p.Servers {
			fmt.Printf("  server %-24s %-16s %s\n", srv.Name, srv.IP, srv.ID)
		}
		for _, doc := range p.Documents {
			fmt.Printf("  document %-22s %-6s imported %s\n", doc.Filename, doc.Type, doc.ImportedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var providerUpdateCmd = &cobra.Command{
	Use:   "update <provider-id>",
	Short: "Update a provider's name or connection metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := kb.ProviderPatch{}
		if providerName != "" {
			patch.Name = &providerName
		}
		if providerRegion != "" || providerAccountID != "" || providerConnKind != "" {
			p, err := manager.GetProvider(args[0])
			if errors.Is(err, store.ErrNotFound) {
				fmt.Println(i18n.T("provider.not_found"))
				return nil
			}
			if err != nil {
				return err
			}
			conn := p.Connection
			if providerConnKind != "" {
				conn.Kind = model.ConnectionKind(providerConnKind)
			}
			if providerRegion != "" {
				conn.Region = providerRegion
			}
			if providerAccountID != "" {
				conn.AccountID = providerAccountID
			}
			patch.Connection = &conn
		}
		if _, err := manager.UpdateProvider(args[0], patch); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Println(i18n.T("provider.not_found"))
				return nil
			}
			return err
		}
		fmt.Println(i18n.T("provider.updated"))
		return nil
	},
}

var providerDeleteCmd = &cobra.Command{
	Use:   "delete <provider-id>",
	Short: "Delete a provider, its servers and its documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := manager.DeleteProvider(args[0])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Println(i18n.T("provider.not_found"))
			return nil
		}
		fmt.Println(i18n.T("provider.deleted"))
		return nil
	},
}

func init() {
	providerAddCmd.Flags().StringVar(&providerName, "name", "", "display name (defaults per type)")
	providerAddCmd.Flags().StringVar(&providerRegion, "region", "", "provider region")
	providerAddCmd.Flags().StringVar(&providerAccountID, "account-id", "", "account identifier (kept out of AI context)")
	providerAddCmd.Flags().StringVar(&providerConnKind, "connection", "api", "connection kind: api, ssh or cli")

	providerUpdateCmd.Flags().StringVar(&providerName, "name", "", "new display name")
	providerUpdateCmd.Flags().StringVar(&providerRegion, "region", "", "new region")
	providerUpdateCmd.Flags().StringVar(&providerAccountID, "account-id", "", "new account identifier")
	providerUpdateCmd.Flags().StringVar(&providerConnKind, "connection", "", "new connection kind")

	providerCmd.AddCommand(providerAddCmd, providerListCmd, providerShowCmd, providerUpdateCmd, providerDeleteCmd)
	rootCmd.AddCommand(providerCmd)
}
