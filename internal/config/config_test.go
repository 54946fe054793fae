// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolateConfigDir points the user config directory at a temp dir so tests
// never touch the real configuration.
func isolateConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestLoadConfig_MissingFile_ReturnsEmptyConfig(t *testing.T) {
	isolateConfigDir(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Empty(t, cfg.DeployHosts)
}

func TestSaveLoadConfig_RoundTripsHosts(t *testing.T) {
	isolateConfigDir(t)

	in := Config{DeployHosts: []DeployHost{
		{Name: "prod", Hostname: "prod.example.org", User: "deploy", Port: 2222, RemotePath: "/srv/www"},
	}}
	require.NoError(t, SaveConfig(in))

	out, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, in.DeployHosts, out.DeployHosts)
}

func TestLoadConfig_DisabledHosts_AreFilteredOut(t *testing.T) {
	isolateConfigDir(t)

	in := Config{DeployHosts: []DeployHost{
		{Name: "active", Hostname: "a.example.org", User: "deploy", RemotePath: "/srv/www"},
		{Name: "retired", Hostname: "b.example.org", User: "deploy", RemotePath: "/srv/www", Disabled: true},
	}}
	require.NoError(t, SaveConfig(in))

	out, err := LoadConfig()
	require.NoError(t, err)
	require.Len(t, out.DeployHosts, 1)
	require.Equal(t, "active", out.DeployHosts[0].Name)
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	dir := isolateConfigDir(t)
	configDir := filepath.Join(dir, "pagewright")
	require.NoError(t, os.MkdirAll(configDir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(": not yaml"), 0640))

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestSaveConfig_CreatesConfigDirWithRestrictedPerms(t *testing.T) {
	dir := isolateConfigDir(t)

	require.NoError(t, SaveConfig(Config{}))

	info, err := os.Stat(filepath.Join(dir, "pagewright"))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Equal(t, os.FileMode(0750), info.Mode().Perm())
}

func TestFindHost_KnownName_ReturnsHost(t *testing.T) {
	cfg := Config{DeployHosts: []DeployHost{
		{Name: "prod", Hostname: "prod.example.org"},
		{Name: "staging", Hostname: "staging.example.org"},
	}}

	h, err := FindHost(cfg, "staging")
	require.NoError(t, err)
	require.Equal(t, "staging.example.org", h.Hostname)
}

func TestFindHost_UnknownName_ReturnsError(t *testing.T) {
	_, err := FindHost(Config{}, "nowhere")
	require.Error(t, err)
	require.Contains(t, err.Error(), "nowhere")
}

func TestResolvePath_TildePrefix_ExpandsToHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ResolvePath("~/.ssh/id_ed25519")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".ssh/id_ed25519"), got)
}

func TestResolvePath_AbsolutePath_IsUnchanged(t *testing.T) {
	got, err := ResolvePath("/etc/ssh/key")
	require.NoError(t, err)
	require.Equal(t, "/etc/ssh/key", got)
}
