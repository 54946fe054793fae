// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package publish implements the build-and-stamp pipeline: enter the site
// directory, run the external build tool, then write the CNAME stamp into
// the build output. The pipeline is strictly sequential and fail-fast; a
// failing step aborts the run and the stamp is never written after a failed
// build.
package publish

import (
	"errors"
	"os"
	"time"

	"pagewright/internal/runner"
	"pagewright/internal/site"
	"pagewright/internal/stamp"
)

// Options configures a single pipeline run.
type Options struct {
	Site site.Site

	// SkipStamp runs the build without touching the stamp file.
	SkipStamp bool

	// CLIMode passes the build tool's output straight to the terminal.
	// TUI callers drive runner.StreamCommand themselves instead of using
	// Run, so this is effectively always true here.
	CLIMode bool
}

// Result describes a completed pipeline run.
type Result struct {
	Duration  time.Duration
	StampPath string // empty when SkipStamp is set
	Domain    string
}

// BuildStep returns the external build invocation for the site, anchored at
// the site root.
func BuildStep(s site.Site) runner.CommandStep {
	return runner.CommandStep{
		Name:    "Build Site",
		Command: s.Build.Command,
		Args:    s.Build.Args,
		Dir:     s.Root,
	}
}

// Run executes the pipeline: enter the site root, build, stamp. Each step
// gets a single attempt; the first failure is returned as a typed error
// (*EnvError, *BuildError or *StampError) and later steps do not run.
func Run(opts Options) (Result, error) {
	start := time.Now()
	s := opts.Site

	// The original script's contract is to operate from the site directory,
	// so the process cwd moves there for the duration of the run.
	if err := enter(s.Root); err != nil {
		return Result{}, err
	}

	if err := runner.Run(BuildStep(s)); err != nil {
		return Result{}, asBuildError(err)
	}

	res := Result{Duration: time.Since(start), Domain: s.Domain}
	if opts.SkipStamp {
		return res, nil
	}

	path, err := Stamp(s)
	if err != nil {
		return Result{}, err
	}
	res.StampPath = path
	res.Duration = time.Since(start)
	return res, nil
}

// Stamp writes the site's domain into the stamp file inside the build
// output directory.
func Stamp(s site.Site) (string, error) {
	path, err := stamp.Write(s.OutputDir(), s.Domain)
	if err != nil {
		return "", &StampError{Path: s.OutputDir(), Err: err}
	}
	return path, nil
}

func enter(root string) error {
	if err := os.Chdir(root); err != nil {
		return &EnvError{Path: root, Err: err}
	}
	return nil
}

func asBuildError(err error) error {
	var stepErr *runner.StepError
	if errors.As(err, &stepErr) {
		return &BuildError{Command: stepErr.Command, ExitCode: stepErr.ExitCode, Err: stepErr.Err}
	}
	return &BuildError{ExitCode: -1, Err: err}
}
