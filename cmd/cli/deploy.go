// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"os"
	"time"

	"pagewright/internal/config"
	"pagewright/internal/deploy"
	"pagewright/internal/logger"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy <host-name>",
	Short: "Upload the build output to a configured deploy host",
	Long: `Packs the build output directory into a tar stream and unpacks it into
the host's configured remote path over SSH. Hosts are managed with
'pw hosts'.`,
	Example:           "  pw deploy webserver\n  pw deploy mirror --site ~/code/calculus",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: hostCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		s := resolveSite()

		cfg, err := config.LoadConfig()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		host, err := config.FindHost(cfg, args[0])
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		count, err := deploy.CountEntries(s.OutputDir())
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error reading build output %s: %v\n", s.OutputDir(), err)
			os.Exit(1)
		}

		statusColor.Printf("Deploying %d files from %s to %s:%s...\n",
			count, s.OutputDir(), host.Name, host.RemotePath)

		sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		sp.Color("cyan")
		sp.Suffix = " Uploading..."
		sp.Start()

		err = deploy.Deploy(sshManager, host, s.OutputDir())
		sp.Stop()

		if err != nil {
			logger.Errorf("Deploy to %s failed: %v", host.Name, err)
			errorColor.Fprintf(os.Stderr, "\nError: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("Deployed %s to %s.\n", domainColor.Sprint(s.Domain), host.Name)
	},
}
