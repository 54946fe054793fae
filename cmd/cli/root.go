// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"os"

	"pagewright/internal/config"
	"pagewright/internal/site"
	"pagewright/internal/ssh"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	sshManager *ssh.Manager

	statusColor  = color.New(color.FgCyan)
	errorColor   = color.New(color.FgRed)
	stepColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	domainColor  = color.New(color.FgBlue)
	dimColor     = color.New(color.Faint)
)

// siteFlag is the --site override for the site root directory.
var siteFlag string

var rootCmd = &cobra.Command{
	Use:   "pw",
	Short: "Pagewright CLI",
	Long: `Builds and publishes a trunk-based static site.

Runs the site's release build, stamps the CNAME file into the build output,
and optionally previews the result locally or deploys it to remote hosts
configured via SSH (~/.config/pagewright/config.yaml).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.EnsureConfigDir(); err != nil {
			return fmt.Errorf("failed to ensure config directory: %w", err)
		}
		sshManager = ssh.NewManager()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if sshManager != nil {
			sshManager.CloseAll()
		}
		return nil
	},
}

func RunCLI() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// resolveSite loads the site for the current invocation, honoring --site.
func resolveSite() site.Site {
	s, err := site.Resolve(siteFlag)
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Error locating site: %v\n", err)
		os.Exit(1)
	}
	return s
}

func init() {
	rootCmd.PersistentFlags().StringVar(&siteFlag, "site", "", "site root directory (default: cwd with pagewright.yaml, else the executable's directory)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(stampCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(hostsCmd)
}
