// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Message types for the Bubble Tea Model-View-Update loop. Messages carry
// results of asynchronous work (build steps, stamping, deploys) back into
// the Update method.

package ui

import (
	"pagewright/internal/config"
	"pagewright/internal/runner"
)

// Deploy host messages
type hostsLoadedMsg struct {
	hosts []config.DeployHost
	err   error
}
type deployFinishedMsg struct {
	host string
	err  error
}

// Command execution messages
type outputLineMsg struct{ line runner.OutputLine } // single chunk of command output
type outputClosedMsg struct{}                       // output channel drained
type stepFinishedMsg struct{ err error }            // a build step finished
type stampFinishedMsg struct {
	path string
	err  error
}
type channelsAvailableMsg struct {
	outChan <-chan runner.OutputLine // channel for receiving command output
	errChan <-chan error             // channel for receiving the step result
}
