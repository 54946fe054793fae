// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"os"
	"path/filepath"
	"time"

	"pagewright/internal/logger"
	"pagewright/internal/publish"
	"pagewright/internal/stamp"

	"github.com/spf13/cobra"
)

var skipStampFlag bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the release build and stamp the CNAME file",
	Long: `Runs the site's external build command (trunk build --release by default)
from the site root, then writes the configured domain into the CNAME file
inside the build output directory.

The stamp is only written after a successful build; the first failing step
aborts the run with a non-zero exit status.`,
	Example: "  pw build\n  pw build --skip-stamp\n  pw build --site ~/code/calculus",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := resolveSite()

		stepColor.Printf("--- Building %s ---\n", s.Root)
		result, err := publish.Run(publish.Options{Site: s, SkipStamp: skipStampFlag, CLIMode: true})
		if err != nil {
			logger.Errorf("Build failed for %s: %v", s.Root, err)
			errorColor.Fprintf(os.Stderr, "\nError: %v\n", err)
			os.Exit(1)
		}

		if result.StampPath != "" {
			successColor.Printf("\nStamped %s into %s\n", domainColor.Sprint(result.Domain), result.StampPath)
		}
		successColor.Printf("Build completed in %s.\n", result.Duration.Round(time.Millisecond))
	},
}

var stampCmd = &cobra.Command{
	Use:   "stamp",
	Short: "Write the CNAME file into the build output without rebuilding",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := resolveSite()

		path, err := publish.Stamp(s)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		successColor.Printf("Stamped %s into %s\n", domainColor.Sprint(s.Domain), path)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the build output directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := resolveSite()
		outDir := s.OutputDir()

		// Refuse to remove anything that doesn't look like a build output:
		// either it carries the stamp file or it doesn't exist at all.
		if _, err := os.Stat(outDir); os.IsNotExist(err) {
			dimColor.Printf("Nothing to clean: %s does not exist.\n", outDir)
			return
		}
		if _, err := os.Stat(filepath.Join(outDir, stamp.FileName)); err != nil {
			errorColor.Fprintf(os.Stderr, "Refusing to remove %s: no %s stamp found. Remove it manually if intended.\n", outDir, stamp.FileName)
			os.Exit(1)
		}

		if err := os.RemoveAll(outDir); err != nil {
			errorColor.Fprintf(os.Stderr, "Error removing %s: %v\n", outDir, err)
			os.Exit(1)
		}
		successColor.Printf("Removed %s\n", outDir)
	},
}

func init() {
	buildCmd.Flags().BoolVar(&skipStampFlag, "skip-stamp", false, "run the build without writing the CNAME file")
}
