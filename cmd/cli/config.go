// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"fmt"
	"os"
	"strings"

	"pagewright/internal/site"
	"pagewright/internal/stamp"

	"github.com/spf13/cobra"
)

// configCmd groups the site configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the site configuration",
	Long: `Shows and edits the per-site pagewright.yaml. With no file present the
defaults reproduce the original publish script (trunk build --release,
docs output, calculus.dogwood.cloud domain).`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective site configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := resolveSite()

		fmt.Printf("Site root:   %s\n", s.Root)
		fmt.Printf("Domain:      %s\n", domainColor.Sprint(s.Domain))
		fmt.Printf("Output:      %s\n", s.Output)
		fmt.Printf("Build:       %s %s\n", s.Build.Command, strings.Join(s.Build.Args, " "))
		fmt.Printf("Preview:     port %d\n", s.Preview.Port)
		fmt.Printf("Watch paths: %s\n", strings.Join(s.Watch.Paths, ", "))

		stamped, err := stamp.Read(s.OutputDir())
		if err == nil && stamped != "" {
			dimColor.Printf("Currently stamped: %s\n", stamped)
		}
	},
}

var configSetDomainCmd = &cobra.Command{
	Use:   "set-domain <domain>",
	Short: "Set the domain written to the CNAME stamp file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		updateSiteConfig(func(s *site.Site) error {
			domain := strings.TrimSpace(args[0])
			if domain == "" {
				return fmt.Errorf("domain must not be empty")
			}
			s.Domain = domain
			return nil
		})
		successColor.Printf("Domain set to %s\n", args[0])
	},
}

var configSetOutputCmd = &cobra.Command{
	Use:   "set-output <dir>",
	Short: "Set the build output directory (relative to the site root)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		updateSiteConfig(func(s *site.Site) error {
			out := strings.TrimSpace(args[0])
			if out == "" || strings.HasPrefix(out, "/") {
				return fmt.Errorf("output must be a non-empty relative path")
			}
			s.Output = out
			return nil
		})
		successColor.Printf("Output directory set to %s\n", args[0])
	},
}

// updateSiteConfig loads the site, applies the mutation and writes
// pagewright.yaml back into the site root.
func updateSiteConfig(mutate func(*site.Site) error) {
	s := resolveSite()

	if err := mutate(&s); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := site.Save(s); err != nil {
		errorColor.Fprintf(os.Stderr, "Error saving site config: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetDomainCmd)
	configCmd.AddCommand(configSetOutputCmd)
}
