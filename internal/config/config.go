// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package config handles the user-level configuration: the list of remote
// hosts a site can be deployed to over SSH, stored as YAML under the user
// config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DeployHost is a remote SSH host a built site can be published to.
type DeployHost struct {
	// Name is the unique identifier for this host configuration
	Name string `yaml:"name"`

	// Hostname is the server address (IP or domain)
	Hostname string `yaml:"hostname"`

	// User is the SSH username for authentication
	User string `yaml:"user"`

	// Port is the SSH port number (optional, defaults to standard SSH port)
	Port int `yaml:"port,omitempty"`

	// KeyPath is the path to the SSH private key file
	KeyPath string `yaml:"key_path,omitempty"`

	// Password is an optional authentication method (plaintext, discouraged)
	Password string `yaml:"password,omitempty"`

	// RemotePath is the directory on the host the site is unpacked into
	RemotePath string `yaml:"remote_path"`

	// Disabled indicates whether this host should be skipped
	Disabled bool `yaml:"disabled,omitempty"`
}

// Config is the top-level user configuration.
type Config struct {
	DeployHosts []DeployHost `yaml:"deploy_hosts"`
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "pagewright", "config.yaml"), nil
}

func LoadConfig() (Config, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	cfg.DeployHosts = slices.DeleteFunc(cfg.DeployHosts, func(h DeployHost) bool {
		return h.Disabled
	})

	return cfg, nil
}

func EnsureConfigDir() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(configPath)
	err = os.MkdirAll(configDir, 0750) // rwxr-x---
	if err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}
	return nil
}

func SaveConfig(cfg Config) error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}

	err = EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write with permissions rw-r----- (0640)
	err = os.WriteFile(configPath, data, 0640)
	if err != nil {
		return fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return nil
}

// FindHost returns the named deploy host from the configuration.
func FindHost(cfg Config, name string) (DeployHost, error) {
	for _, h := range cfg.DeployHosts {
		if h.Name == name {
			return h, nil
		}
	}
	return DeployHost{}, fmt.Errorf("deploy host '%s' not found in configuration", name)
}

func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path, fmt.Errorf("could not get user home directory to resolve path '%s': %w", path, err)
	}

	return filepath.Join(homeDir, path[2:]), nil
}
