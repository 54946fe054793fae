// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package runner

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// collect drains both channels of a TUI-mode command.
func collect(step CommandStep) (string, string, error) {
	outChan, errChan := StreamCommand(step, false)

	var stdout, stderr strings.Builder
	done := make(chan struct{})
	go func() {
		defer close(done)
		for line := range outChan {
			if line.IsError {
				stderr.WriteString(line.Line)
			} else {
				stdout.WriteString(line.Line)
			}
		}
	}()

	err := <-errChan
	<-done
	return stdout.String(), stderr.String(), err
}

func TestStreamCommand_Success_StreamsStdout(t *testing.T) {
	step := CommandStep{Name: "Echo", Command: "sh", Args: []string{"-c", "echo hello"}}

	stdout, stderr, err := collect(step)
	require.NoError(t, err)
	require.Equal(t, "hello\n", stdout)
	require.Empty(t, stderr)
}

func TestStreamCommand_FastExit_LosesNoOutput(t *testing.T) {
	// The child writes several KB and exits immediately; every chunk must
	// still arrive on the channel, so the streaming result is complete even
	// when the process is long gone before the reader catches up.
	step := CommandStep{Name: "Burst", Command: "sh", Args: []string{"-c",
		`i=0; while [ $i -lt 200 ]; do echo "line $i"; i=$((i+1)); done`}}

	stdout, _, err := collect(step)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "line 0\n"))
	require.Contains(t, stdout, "line 199\n")
	require.Equal(t, 200, strings.Count(stdout, "\n"))
}

func TestStreamCommand_OutputBeforeFailure_IsDelivered(t *testing.T) {
	step := CommandStep{Name: "Partial", Command: "sh", Args: []string{"-c", "echo progress; exit 2"}}

	stdout, _, err := collect(step)
	require.Error(t, err)
	require.Equal(t, "progress\n", stdout)
}

func TestStreamCommand_StderrChunks_AreMarked(t *testing.T) {
	step := CommandStep{Name: "Warn", Command: "sh", Args: []string{"-c", "echo oops >&2"}}

	stdout, stderr, err := collect(step)
	require.NoError(t, err)
	require.Empty(t, stdout)
	require.Equal(t, "oops\n", stderr)
}

func TestStreamCommand_NonZeroExit_ReportsExitCode(t *testing.T) {
	step := CommandStep{Name: "Fail", Command: "sh", Args: []string{"-c", "exit 7"}}

	_, _, err := collect(step)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, 7, stepErr.ExitCode)
	require.Equal(t, "Fail", stepErr.Step)
	require.Contains(t, stepErr.Error(), "exited with status 7")
}

func TestStreamCommand_MissingTool_FailsWithoutRunning(t *testing.T) {
	step := CommandStep{Name: "Ghost", Command: "definitely-not-a-real-tool"}

	_, _, err := collect(step)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, -1, stepErr.ExitCode)
	require.ErrorIs(t, err, exec.ErrNotFound)
}

func TestStreamCommand_HonorsWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	step := CommandStep{Name: "Pwd", Command: "pwd", Dir: dir}

	stdout, _, err := collect(step)
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	require.Equal(t, resolved, strings.TrimSpace(stdout))
}

func TestRun_Success_ReturnsNil(t *testing.T) {
	require.NoError(t, Run(CommandStep{Name: "True", Command: "true"}))
}

func TestRun_Failure_ReturnsStepError(t *testing.T) {
	err := Run(CommandStep{Name: "False", Command: "false"})
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, 1, stepErr.ExitCode)
}
