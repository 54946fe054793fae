// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package site locates the site working tree and loads its configuration.
// A site is a directory containing a trunk project; pagewright anchors
// itself to the directory of the running executable unless told otherwise,
// so the zero-config invocation behaves like the original publish script.
package site

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the optional per-site configuration file.
	ConfigFileName = "pagewright.yaml"

	// DefaultDomain is stamped into the CNAME file when no site config
	// overrides it.
	DefaultDomain = "calculus.dogwood.cloud"

	// DefaultOutput is the build output directory relative to the site root.
	DefaultOutput = "docs"

	DefaultPreviewPort = 8080
)

// BuildCommand describes the external build tool invocation.
type BuildCommand struct {
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
}

// Preview holds settings for the local preview server.
type Preview struct {
	Port int `yaml:"port,omitempty"`
}

// Watch holds settings for the rebuild-on-change loop.
type Watch struct {
	// Paths are watched for changes, relative to the site root.
	Paths []string `yaml:"paths,omitempty"`
}

// Site is the resolved configuration for one site working tree.
type Site struct {
	// Root is the absolute path of the site directory. Not serialized;
	// it is wherever the config file (or the executable) lives.
	Root string `yaml:"-"`

	// Domain is the custom domain written to the CNAME stamp file.
	Domain string `yaml:"domain,omitempty"`

	// Output is the build output directory, relative to Root.
	Output string `yaml:"output,omitempty"`

	Build   BuildCommand `yaml:"build,omitempty"`
	Preview Preview      `yaml:"preview,omitempty"`
	Watch   Watch        `yaml:"watch,omitempty"`
}

// Defaults returns the site configuration matching the original publish
// script: trunk release build, docs output, fixed domain.
func Defaults(root string) Site {
	return Site{
		Root:    root,
		Domain:  DefaultDomain,
		Output:  DefaultOutput,
		Build:   BuildCommand{Command: "trunk", Args: []string{"build", "--release"}},
		Preview: Preview{Port: DefaultPreviewPort},
		Watch:   Watch{Paths: []string{"src", "index.html", "Trunk.toml"}},
	}
}

// ExecutableDir returns the directory containing the running binary, with
// symlinks resolved. This is the working-directory anchor for the core
// build-and-stamp contract.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate running executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path %s: %w", exe, err)
	}
	return filepath.Dir(resolved), nil
}

// Load reads the site config from root, applying defaults for anything the
// file leaves unset. A missing config file is not an error; the defaults
// reproduce the original script's behavior exactly.
func Load(root string) (Site, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Site{}, fmt.Errorf("failed to resolve site root %s: %w", root, err)
	}

	s := Defaults(absRoot)

	data, err := os.ReadFile(filepath.Join(absRoot, ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return Site{}, fmt.Errorf("failed to read site config in %s: %w", absRoot, err)
	}

	var overrides Site
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Site{}, fmt.Errorf("failed to parse %s in %s: %w", ConfigFileName, absRoot, err)
	}
	s.merge(overrides)
	return s, nil
}

// Save writes the site config file into the site root.
func Save(s Site) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal site config to YAML: %w", err)
	}
	path := filepath.Join(s.Root, ConfigFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write site config %s: %w", path, err)
	}
	return nil
}

// Resolve picks the site root. Precedence: an explicit --site flag, then the
// current working directory if it carries a config file, then the directory
// of the running executable.
func Resolve(flagRoot string) (Site, error) {
	if flagRoot != "" {
		return Load(flagRoot)
	}

	if wd, err := os.Getwd(); err == nil {
		if _, statErr := os.Stat(filepath.Join(wd, ConfigFileName)); statErr == nil {
			return Load(wd)
		}
	}

	exeDir, err := ExecutableDir()
	if err != nil {
		return Site{}, err
	}
	return Load(exeDir)
}

// OutputDir returns the absolute build output directory.
func (s Site) OutputDir() string {
	return filepath.Join(s.Root, s.Output)
}

// WatchPaths returns the absolute paths watched in watch mode.
func (s Site) WatchPaths() []string {
	paths := make([]string, 0, len(s.Watch.Paths))
	for _, p := range s.Watch.Paths {
		paths = append(paths, filepath.Join(s.Root, p))
	}
	return paths
}

func (s *Site) merge(o Site) {
	if o.Domain != "" {
		s.Domain = o.Domain
	}
	if o.Output != "" {
		s.Output = o.Output
	}
	if o.Build.Command != "" {
		s.Build.Command = o.Build.Command
		s.Build.Args = o.Build.Args
	}
	if o.Preview.Port != 0 {
		s.Preview.Port = o.Preview.Port
	}
	if len(o.Watch.Paths) > 0 {
		s.Watch.Paths = o.Watch.Paths
	}
}
