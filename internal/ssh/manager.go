// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ssh establishes and pools SSH connections to deploy hosts. It
// handles authentication (key file, agent, password) and host key
// verification against the user's known_hosts file.
package ssh

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pagewright/internal/config"
	"pagewright/internal/logger"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Manager pools SSH clients per deploy host so repeated deploys reuse
// connections. Safe for concurrent use.
type Manager struct {
	clients map[string]*ssh.Client
	mu      sync.Mutex
}

func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*ssh.Client),
	}
}

// GetClient returns an established SSH client for the deploy host, reusing
// a cached connection when it is still alive.
func (m *Manager) GetClient(host config.DeployHost) (*ssh.Client, error) {
	m.mu.Lock()
	client, found := m.clients[host.Name]
	if found {
		// Keepalive probe detects stale cached connections without a full
		// reconnect attempt.
		_, _, err := client.SendRequest("keepalive@openssh.com", true, nil)
		if err == nil {
			m.mu.Unlock()
			return client, nil
		}
		if err := client.Close(); err != nil {
			logger.Errorf("Error closing stale SSH client for %s: %v", host.Name, err)
		}
		delete(m.clients, host.Name)
	}
	m.mu.Unlock() // unlock before the potentially long dial

	authMethods, err := m.authMethods(host)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare auth methods for %s: %w", host.Name, err)
	}
	if len(authMethods) == 0 {
		return nil, fmt.Errorf("no suitable authentication method found for %s (key, agent, or password required)", host.Name)
	}

	sshConfig := &ssh.ClientConfig{
		User:    host.User,
		Auth:    authMethods,
		Timeout: 10 * time.Second,
	}
	hostKeyCallback, khErr := hostKeyCallback()
	if khErr != nil {
		logger.Warnf("Could not create known_hosts callback for %s: %v. Host key will not be verified.", host.Name, khErr)
		sshConfig.HostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		sshConfig.HostKeyCallback = hostKeyCallback
	}

	port := host.Port
	if port == 0 {
		port = 22
	}
	addr := fmt.Sprintf("%s:%d", host.Hostname, port)

	newClient, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ssh host %s (%s): %w", host.Name, addr, err)
	}

	m.mu.Lock()
	// Another goroutine may have connected while we were dialing.
	if existing, found := m.clients[host.Name]; found {
		m.mu.Unlock()
		if err := newClient.Close(); err != nil {
			logger.Errorf("Error closing redundant SSH client for %s: %v", host.Name, err)
		}
		return existing, nil
	}
	m.clients[host.Name] = newClient
	m.mu.Unlock()

	return newClient, nil
}

// authMethods prepares authentication methods in order: configured key file,
// then the SSH agent (if SSH_AUTH_SOCK is set), then a configured password.
func (m *Manager) authMethods(host config.DeployHost) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if host.KeyPath != "" {
		keyPath, resolveErr := config.ResolvePath(host.KeyPath)
		if resolveErr != nil {
			logger.Warnf("Could not resolve key path '%s': %v", host.KeyPath, resolveErr)
			keyPath = host.KeyPath
		}

		key, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key file %s: %w", keyPath, err)
		}

		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			if _, ok := err.(*ssh.PassphraseMissingError); ok {
				logger.Warnf("Private key file %s is encrypted and passphrase prompting is not supported. Skipping key.", keyPath)
			} else {
				return nil, fmt.Errorf("failed to parse private key file %s: %w", keyPath, err)
			}
		} else {
			methods = append(methods, ssh.PublicKeys(signer))
		}
	}

	if socket := os.Getenv("SSH_AUTH_SOCK"); socket != "" {
		conn, err := net.Dial("unix", socket)
		if err == nil { // silently ignore agent errors if key/password might work
			agentClient := agent.NewClient(conn)
			methods = append(methods, ssh.PublicKeysCallback(agentClient.Signers))
		}
	}

	if host.Password != "" {
		methods = append(methods, ssh.Password(host.Password))
	}

	return methods, nil
}

// CloseAll closes every pooled connection. Called on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, client := range m.clients {
		if err := client.Close(); err != nil {
			logger.Errorf("Error closing SSH client for %s: %v", name, err)
		}
		delete(m.clients, name)
	}
}

// hostKeyCallback loads the user's known_hosts file. A missing file falls
// back to accepting any host key; a present but unparsable file is an error.
func hostKeyCallback() (ssh.HostKeyCallback, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory for known_hosts: %w", err)
	}
	knownHostsPath := filepath.Join(homeDir, ".ssh", "known_hosts")

	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warnf("known_hosts file (%s) not found. Will attempt connection without verification.", knownHostsPath)
			return ssh.InsecureIgnoreHostKey(), nil
		}
		return nil, fmt.Errorf("failed to load or parse known_hosts file %s: %w", knownHostsPath, err)
	}
	return callback, nil
}
