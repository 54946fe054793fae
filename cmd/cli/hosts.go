// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"os"

	"pagewright/internal/config"
	"pagewright/internal/logger"

	"github.com/spf13/cobra"
)

// hostsCmd groups management of the deploy hosts stored in the user config.
var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "Manage deploy hosts",
	Long: `Manages the SSH hosts a built site can be deployed to. Hosts live in the
user configuration (~/.config/pagewright/config.yaml) and can be entered
directly or imported from ~/.ssh/config.`,
}

var hostsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured deploy hosts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		if len(cfg.DeployHosts) == 0 {
			fmt.Println("No deploy hosts configured. Add one with 'pw hosts add' or 'pw hosts import'.")
			return
		}

		for _, h := range cfg.DeployHosts {
			port := h.Port
			if port == 0 {
				port = 22
			}
			fmt.Printf("- %s  %s\n", h.Name, dimColor.Sprintf("%s@%s:%d → %s", h.User, h.Hostname, port, h.RemotePath))
		}
	},
}

var (
	hostAddHostname string
	hostAddUser     string
	hostAddPort     int
	hostAddKeyPath  string
	hostAddPath     string
)

var hostsAddCmd = &cobra.Command{
	Use:     "add <name>",
	Short:   "Add a deploy host",
	Example: "  pw hosts add webserver --hostname example.org --user deploy --path /srv/www/calculus",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		if _, err := config.FindHost(cfg, name); err == nil {
			errorColor.Fprintf(os.Stderr, "Error: a host named '%s' already exists.\n", name)
			os.Exit(1)
		}
		if hostAddHostname == "" || hostAddUser == "" || hostAddPath == "" {
			errorColor.Fprintln(os.Stderr, "Error: --hostname, --user and --path are required.")
			os.Exit(1)
		}

		cfg.DeployHosts = append(cfg.DeployHosts, config.DeployHost{
			Name:       name,
			Hostname:   hostAddHostname,
			User:       hostAddUser,
			Port:       hostAddPort,
			KeyPath:    hostAddKeyPath,
			RemotePath: hostAddPath,
		})

		if err := config.SaveConfig(cfg); err != nil {
			errorColor.Fprintf(os.Stderr, "Error saving configuration: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("Added deploy host '%s'.\n", name)
	},
}

var hostsRemoveCmd = &cobra.Command{
	Use:               "remove <name>",
	Short:             "Remove a deploy host",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: hostCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		kept := cfg.DeployHosts[:0]
		removed := false
		for _, h := range cfg.DeployHosts {
			if h.Name == name {
				removed = true
				continue
			}
			kept = append(kept, h)
		}
		if !removed {
			errorColor.Fprintf(os.Stderr, "Error: host '%s' not found in configuration.\n", name)
			os.Exit(1)
		}
		cfg.DeployHosts = kept

		if err := config.SaveConfig(cfg); err != nil {
			errorColor.Fprintf(os.Stderr, "Error saving configuration: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("Removed deploy host '%s'.\n", name)
	},
}

var hostsImportPath string

var hostsImportCmd = &cobra.Command{
	Use:   "import [alias...]",
	Short: "Import deploy hosts from ~/.ssh/config",
	Long: `Imports host entries from the user's SSH client configuration. With no
arguments every concrete host entry is imported; otherwise only the named
aliases. Hosts whose name already exists are skipped.`,
	Example: "  pw hosts import --path /srv/www/calculus\n  pw hosts import webserver mirror --path /srv/www/calculus",
	Run: func(cmd *cobra.Command, args []string) {
		if hostsImportPath == "" {
			errorColor.Fprintln(os.Stderr, "Error: --path is required (remote directory the site is unpacked into).")
			os.Exit(1)
		}

		potential, err := config.ParseSSHConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error parsing ssh config: %v\n", err)
			os.Exit(1)
		}

		wanted := make(map[string]bool, len(args))
		for _, a := range args {
			wanted[a] = true
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		imported, skipped := 0, 0
		for _, p := range potential {
			if len(wanted) > 0 && !wanted[p.Alias] {
				continue
			}
			if _, err := config.FindHost(cfg, p.Alias); err == nil {
				dimColor.Printf("Skipping '%s': already configured.\n", p.Alias)
				skipped++
				continue
			}

			host, convErr := config.ConvertToDeployHost(p, p.Alias, hostsImportPath)
			if convErr != nil {
				logger.Warnf("Skipping '%s': %v", p.Alias, convErr)
				skipped++
				continue
			}
			cfg.DeployHosts = append(cfg.DeployHosts, host)
			imported++
		}

		if imported > 0 {
			if err := config.SaveConfig(cfg); err != nil {
				errorColor.Fprintf(os.Stderr, "Error saving configuration: %v\n", err)
				os.Exit(1)
			}
		}
		successColor.Printf("Imported %d host(s), skipped %d.\n", imported, skipped)
	},
}

func init() {
	hostsAddCmd.Flags().StringVar(&hostAddHostname, "hostname", "", "server address (IP or domain)")
	hostsAddCmd.Flags().StringVar(&hostAddUser, "user", "", "SSH username")
	hostsAddCmd.Flags().IntVar(&hostAddPort, "port", 0, "SSH port (default 22)")
	hostsAddCmd.Flags().StringVar(&hostAddKeyPath, "key", "", "path to the SSH private key file")
	hostsAddCmd.Flags().StringVar(&hostAddPath, "path", "", "remote directory the site is unpacked into")

	hostsImportCmd.Flags().StringVar(&hostsImportPath, "path", "", "remote directory the site is unpacked into")

	hostsCmd.AddCommand(hostsListCmd)
	hostsCmd.AddCommand(hostsAddCmd)
	hostsCmd.AddCommand(hostsRemoveCmd)
	hostsCmd.AddCommand(hostsImportCmd)
}
