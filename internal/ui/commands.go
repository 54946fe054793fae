// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"pagewright/internal/config"
	"pagewright/internal/deploy"
	"pagewright/internal/publish"
	"pagewright/internal/runner"
	"pagewright/internal/site"
	"pagewright/internal/ssh"

	tea "github.com/charmbracelet/bubbletea"
)

// loadHostsCmd loads the configured deploy hosts.
func loadHostsCmd() tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.LoadConfig()
		return hostsLoadedMsg{hosts: cfg.DeployHosts, err: err}
	}
}

// startBuildCmd launches the site build in TUI mode and hands the output
// channels back to the model.
func startBuildCmd(s site.Site) tea.Cmd {
	return func() tea.Msg {
		outChan, errChan := runner.StreamCommand(publish.BuildStep(s), false)
		return channelsAvailableMsg{outChan: outChan, errChan: errChan}
	}
}

// waitForOutputCmd reads the next output chunk from the running command.
// Re-issued by Update after every outputLineMsg.
func waitForOutputCmd(outChan <-chan runner.OutputLine) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-outChan
		if !ok {
			return outputClosedMsg{}
		}
		return outputLineMsg{line: line}
	}
}

// waitForStepCmd waits for the running command's final result.
func waitForStepCmd(errChan <-chan error) tea.Cmd {
	return func() tea.Msg {
		return stepFinishedMsg{err: <-errChan}
	}
}

// stampCmd writes the CNAME stamp into the build output.
func stampCmd(s site.Site) tea.Cmd {
	return func() tea.Msg {
		path, err := publish.Stamp(s)
		return stampFinishedMsg{path: path, err: err}
	}
}

// deployCmd uploads the build output to the selected host.
func deployCmd(manager *ssh.Manager, host config.DeployHost, outDir string) tea.Cmd {
	return func() tea.Msg {
		err := deploy.Deploy(manager, host, outDir)
		return deployFinishedMsg{host: host.Name, err: err}
	}
}
