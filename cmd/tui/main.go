// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package tui

import (
	"fmt"
	"os"

	"pagewright/internal/site"
	"pagewright/internal/ssh"
	"pagewright/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// RunTUI initializes and runs the Bubble Tea TUI application.
func RunTUI() {
	s, err := site.Resolve("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to locate site: %v\n", err)
		os.Exit(1)
	}

	manager := ssh.NewManager()
	defer manager.CloseAll()

	m := ui.InitialModel(s, manager)
	p := tea.NewProgram(&m)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}
