// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pagewright/internal/logger"
	"pagewright/internal/preview"
	"pagewright/internal/publish"
	"pagewright/internal/watch"

	"github.com/spf13/cobra"
)

var (
	watchDebounceFlag time.Duration
	watchServeFlag    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild and restamp whenever the site sources change",
	Long: `Watches the site's source paths and re-runs the build-and-stamp pipeline
after each change. A failing build is reported and watching continues.
With --serve, the build output is also served locally while watching.`,
	Example: "  pw watch\n  pw watch --serve\n  pw watch --debounce 1s",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := resolveSite()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var srv *preview.Server
		if watchServeFlag {
			srv = preview.New(s)
			go func() {
				statusColor.Printf("Serving %s on http://localhost:%d\n", s.OutputDir(), s.Preview.Port)
				if err := srv.ListenAndServe(s.Preview.Port); err != nil {
					errorColor.Fprintf(os.Stderr, "Server error: %v\n", err)
				}
			}()
		}

		rebuild := func() error {
			stepColor.Printf("\n--- Change detected, rebuilding %s ---\n", s.Root)
			start := time.Now()
			result, err := publish.Run(publish.Options{Site: s, CLIMode: true})
			if srv != nil {
				srv.RecordBuild(time.Since(start), err)
			}
			if err != nil {
				errorColor.Fprintf(os.Stderr, "Build failed: %v\n", err)
				return err
			}
			successColor.Printf("Rebuilt and stamped in %s.\n", result.Duration.Round(time.Millisecond))
			return nil
		}

		// One build up front so the output is fresh before we start waiting.
		if err := rebuild(); err != nil {
			logger.Errorf("Initial build failed: %v", err)
		}

		statusColor.Printf("Watching %s\n", strings.Join(s.Watch.Paths, ", "))
		err := watch.Watch(ctx, s.WatchPaths(), watchDebounceFlag, rebuild)
		if err != nil && !errors.Is(err, context.Canceled) {
			errorColor.Fprintf(os.Stderr, "Watch error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounceFlag, "debounce", watch.DefaultDebounce, "how long to batch changes before rebuilding")
	watchCmd.Flags().BoolVar(&watchServeFlag, "serve", false, "also serve the build output while watching")
}
