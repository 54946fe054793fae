// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package runner executes external build tools as child processes and
// streams their output. Output either goes straight to the terminal (CLI
// mode) or is delivered in raw chunks over a channel (TUI mode).
package runner

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// CommandStep is a single external command invocation.
type CommandStep struct {
	Name    string
	Command string
	Args    []string
	Dir     string // working directory; empty means the process cwd
}

// OutputLine is a chunk of command output delivered in TUI mode.
type OutputLine struct {
	Line    string
	IsError bool // true if the chunk came from stderr
}

// StepError reports a failed command step. ExitCode is -1 when the command
// never ran (tool missing from PATH, start failure).
type StepError struct {
	Step     string
	Command  string
	ExitCode int
	Err      error
}

func (e *StepError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("step '%s' (%s) exited with status %d", e.Step, e.Command, e.ExitCode)
	}
	return fmt.Sprintf("step '%s' (%s) failed: %v", e.Step, e.Command, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// StreamCommand starts the step and returns channels for its output and
// final result. If cliMode is true the child inherits os.Stdout/os.Stderr
// and outChan stays silent; otherwise raw output chunks are sent over
// outChan. errChan receives exactly one value: nil on success, or a
// *StepError. Both channels are closed when the step finishes.
func StreamCommand(step CommandStep, cliMode bool) (<-chan OutputLine, <-chan error) {
	// Buffer slightly for TUI mode to avoid blocking on rapid output.
	outChan := make(chan OutputLine, 10)
	errChan := make(chan error, 1)

	go func() {
		defer close(outChan)
		defer close(errChan)
		errChan <- runStep(step, cliMode, outChan)
	}()

	return outChan, errChan
}

// Run executes the step synchronously in CLI mode, inheriting the caller's
// stdout and stderr.
func Run(step CommandStep) error {
	_, errChan := StreamCommand(step, true)
	return <-errChan
}

func runStep(step CommandStep, cliMode bool, outChan chan<- OutputLine) error {
	// Resolve the tool up front so a missing command fails before any side
	// effect, with a distinct error from a non-zero exit.
	if !strings.ContainsRune(step.Command, os.PathSeparator) {
		if _, err := exec.LookPath(step.Command); err != nil {
			return &StepError{Step: step.Name, Command: step.Command, ExitCode: -1, Err: err}
		}
	}

	cmd := exec.Command(step.Command, step.Args...)
	cmd.Dir = step.Dir

	if cliMode {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Start(); err != nil {
			return &StepError{Step: step.Name, Command: step.Command, ExitCode: -1, Err: err}
		}
		return waitStep(step, cmd)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return &StepError{Step: step.Name, Command: step.Command, ExitCode: -1, Err: fmt.Errorf("failed to get stdout pipe: %w", err)}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return &StepError{Step: step.Name, Command: step.Command, ExitCode: -1, Err: fmt.Errorf("failed to get stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return &StepError{Step: step.Name, Command: step.Command, ExitCode: -1, Err: err}
	}

	outputDone := make(chan struct{}, 2) // wait for both streamPipe goroutines
	go streamPipe(stdoutPipe, outChan, outputDone, false)
	go streamPipe(stderrPipe, outChan, outputDone, true)

	// Both pipes must be fully drained before Wait: Wait closes the pipe
	// file descriptors, and a read after that loses the remaining output.
	<-outputDone
	<-outputDone

	return waitStep(step, cmd)
}

func waitStep(step CommandStep, cmd *exec.Cmd) error {
	err := cmd.Wait()
	if err == nil {
		return nil
	}

	exitCode := -1
	if exitError, ok := err.(*exec.ExitError); ok {
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			exitCode = status.ExitStatus()
		}
	}
	return &StepError{Step: step.Name, Command: step.Command, ExitCode: exitCode, Err: err}
}

// streamPipe reads raw chunks from the pipe and sends them over outChan.
// Raw chunks rather than lines so control characters survive for the TUI.
func streamPipe(pipe io.Reader, outChan chan<- OutputLine, doneChan chan<- struct{}, isError bool) {
	defer func() { doneChan <- struct{}{} }()
	buf := make([]byte, 1024)
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			outChan <- OutputLine{Line: string(buf[:n]), IsError: isError}
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "Pipe read error (%v): %v\n", isError, err)
			}
			break
		}
	}
}
