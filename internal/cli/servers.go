// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/infrakeep/infrakeep/internal/i18n"
	"github.com/infrakeep/infrakeep/internal/kb"
	"github.com/infrakeep/infrakeep/internal/model"
	"github.com/infrakeep/infrakeep/internal/store"
)

var (
	serverName    string
	serverIP      string
	serverUser    string
	serverPort    int
	serverKeyPath string
	serverDomain  string
	serverNotes   string
	copyToClip    bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage servers under a provider",
}

var serverAddCmd = &cobra.Command{
	Use:   "add <provider-id>",
	Short: "Add a server to a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := model.Server{
			Name:       serverName,
			IP:         serverIP,
			SSHUser:    serverUser,
			SSHPort:    serverPort,
			SSHKeyPath: serverKeyPath,
			Domain:     serverDomain,
			Notes:      serverNotes,
		}
		created, err := manager.AddServer(args[0], srv)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println(i18n.T("provider.not_found"))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s %s (%s)\n", i18n.T("server.added"), created.Name, created.ID)
		return nil
	},
}

var serverListCmd = &cobra.Command{
	Use:   "list <provider-id>",
	Short: "List the servers of a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		servers, err := manager.Servers(args[0])
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println(i18n.T("provider.not_found"))
			return nil
		}
		if err != nil {
			return err
		}
		for _, srv := range servers {
			fmt.Printf("%-24s %-16s %s@:%d  %s\n", srv.Name, srv.IP, srv.SSHUser, srv.SSHPort, srv.ID)
		}
		return nil
	},
}

var serverUpdateCmd = &cobra.Command{
	Use:   "update <provider-id> <server-id>",
	Short: "Update a server; the SSH command is rederived on connection changes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := kb.ServerPatch{}
		if cmd.Flags().Changed("name") {
			patch.Name = &serverName
		}
		if cmd.Flags().Changed("ip") {
			patch.IP = &serverIP
		}
		if cmd.Flags().Changed("user") {
			patch.SSHUser = &serverUser
		}
		if cmd.Flags().Changed("port") {
			patch.SSHPort = &serverPort
		}
		if cmd.Flags().Changed("key") {
			patch.SSHKeyPath = &serverKeyPath
		}
		if cmd.Flags().Changed("domain") {
			patch.Domain = &serverDomain
		}
		if cmd.Flags().Changed("notes") {
			patch.Notes = &serverNotes
		}
		if _, err := manager.UpdateServer(args[0], args[1], patch); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fmt.Println(i18n.T("server.not_found"))
				return nil
			}
			return err
		}
		fmt.Println(i18n.T("server.updated"))
		return nil
	},
}

var serverDeleteCmd = &cobra.Command{
	Use:   "delete <provider-id> <server-id>",
	Short: "Delete a server",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := manager.DeleteServer(args[0], args[1])
		if err != nil {
			return err
		}
		if !removed {
			fmt.Println(i18n.T("server.not_found"))
			return nil
		}
		fmt.Println(i18n.T("server.deleted"))
		return nil
	},
}

var serverCommandCmd = &cobra.Command{
	Use:   "ssh-command <provider-id> <server-id>",
	Short: "Print the derived SSH command for a server",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := manager.GetServer(args[0], args[1])
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println(i18n.T("server.not_found"))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(srv.SSHCommand)
		if copyToClip {
			if err := clipboard.WriteAll(srv.SSHCommand); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			fmt.Println(i18n.T("server.command_copied"))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{serverAddCmd, serverUpdateCmd} {
		c.Flags().StringVar(&serverName, "name", "", "server name")
		c.Flags().StringVar(&serverIP, "ip", "", "IP address or hostname")
		c.Flags().StringVar(&serverUser, "user", "", "SSH username (default root)")
		c.Flags().IntVar(&serverPort, "port", 0, "SSH port (default 22)")
		c.Flags().StringVar(&serverKeyPath, "key", "", "SSH key file path")
		c.Flags().StringVar(&serverDomain, "domain", "", "associated domain")
		c.Flags().StringVar(&serverNotes, "notes", "", "free-text notes")
	}
	serverCommandCmd.Flags().BoolVar(&copyToClip, "copy", false, "copy the command to the clipboard")

	serverCmd.AddCommand(serverAddCmd, serverListCmd, serverUpdateCmd, serverDeleteCmd, serverCommandCmd)
	rootCmd.AddCommand(serverCmd)
}
