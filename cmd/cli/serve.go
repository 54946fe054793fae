// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"os"

	"pagewright/internal/preview"

	"github.com/spf13/cobra"
)

var servePortFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the build output locally for preview",
	Long: `Starts an HTTP server over the build output directory, plus a small
status API at /api/status reporting the stamped domain and last build.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := resolveSite()

		port := s.Preview.Port
		if servePortFlag != 0 {
			port = servePortFlag
		}

		srv := preview.New(s)
		statusColor.Printf("Serving %s on http://localhost:%d\n", s.OutputDir(), port)
		if err := srv.ListenAndServe(port); err != nil {
			errorColor.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePortFlag, "port", "p", 0, "port to listen on (default: site config, 8080)")
}
