// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package publish

import "fmt"

// EnvError means the site directory could not be resolved or entered.
type EnvError struct {
	Path string
	Err  error
}

func (e *EnvError) Error() string {
	return fmt.Sprintf("cannot enter site directory %s: %v", e.Path, e.Err)
}

func (e *EnvError) Unwrap() error { return e.Err }

// BuildError means the external build tool was missing from the execution
// path or exited with a non-zero status. ExitCode is -1 when the tool never
// ran.
type BuildError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *BuildError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("build command %s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("build command %s failed: %v", e.Command, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// StampError means the stamp file could not be written after a successful
// build.
type StampError struct {
	Path string
	Err  error
}

func (e *StampError) Error() string {
	return fmt.Sprintf("cannot write stamp file in %s: %v", e.Path, e.Err)
}

func (e *StampError) Unwrap() error { return e.Err }
