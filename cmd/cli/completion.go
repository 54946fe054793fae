// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"strings"

	"pagewright/internal/config"

	"github.com/spf13/cobra"
)

// hostCompletionFunc provides dynamic completion for deploy host names.
func hostCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var suggestions []string

	cfg, err := config.LoadConfig()
	// Ignore config load errors during completion
	if err == nil {
		for _, host := range cfg.DeployHosts {
			if strings.HasPrefix(host.Name, toComplete) {
				suggestions = append(suggestions, host.Name)
			}
		}
	}

	return suggestions, cobra.ShellCompDirectiveNoFileComp
}
