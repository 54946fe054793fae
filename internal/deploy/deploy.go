// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package deploy publishes a built site to a remote host. The output
// directory is packed into a gzipped tar stream and unpacked on the far end
// through a single SSH session, so nothing beyond a POSIX shell and tar is
// required on the host.
package deploy

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"pagewright/internal/config"
	"pagewright/internal/logger"
	"pagewright/internal/ssh"
	"pagewright/internal/util"

	gossh "golang.org/x/crypto/ssh"
)

// Deploy uploads the contents of outDir to the host's remote path. The
// remote directory is created if missing; existing files are overwritten in
// place, matching the overwrite-not-append behavior of the local stamp.
func Deploy(manager *ssh.Manager, host config.DeployHost, outDir string) error {
	info, err := os.Stat(outDir)
	if err != nil {
		return fmt.Errorf("output directory %s is not accessible: %w", outDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path %s is not a directory", outDir)
	}

	client, err := manager.GetClient(host)
	if err != nil {
		return fmt.Errorf("failed to get ssh client for %s: %w", host.Name, err)
	}

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create ssh session for %s: %w", host.Name, err)
	}
	defer session.Close()

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get ssh stdin pipe for %s: %w", host.Name, err)
	}
	// Remote stderr is captured rather than passed through: deploys can run
	// under the TUI, where writing to the terminal corrupts the screen. On
	// failure it is folded into the returned error instead.
	var remoteStderr bytes.Buffer
	session.Stderr = &remoteStderr

	if err := session.Start(remoteUnpackCommand(host.RemotePath)); err != nil {
		return fmt.Errorf("failed to start remote unpack on %s: %w", host.Name, err)
	}

	archiveErr := writeArchive(stdin, outDir)
	if closeErr := stdin.Close(); archiveErr == nil {
		archiveErr = closeErr
	}

	waitErr := session.Wait()
	if archiveErr != nil {
		return fmt.Errorf("failed to stream site archive to %s: %w", host.Name, archiveErr)
	}
	if waitErr != nil {
		return remoteFailure(host.Name, remoteStderr.String(), waitErr)
	}
	if remoteStderr.Len() > 0 {
		logger.Warnf("Remote unpack on %s wrote to stderr: %s", host.Name, strings.TrimSpace(remoteStderr.String()))
	}
	return nil
}

// remoteFailure describes a failed remote unpack, folding anything the remote
// command wrote to stderr into the error message.
func remoteFailure(hostName, stderr string, waitErr error) error {
	detail := ""
	if s := strings.TrimSpace(stderr); s != "" {
		detail = ": " + s
	}
	if exitErr, ok := waitErr.(*gossh.ExitError); ok {
		return fmt.Errorf("remote unpack on %s exited with status %d%s: %w", hostName, exitErr.ExitStatus(), detail, waitErr)
	}
	return fmt.Errorf("remote unpack on %s failed%s: %w", hostName, detail, waitErr)
}

// remoteUnpackCommand builds the shell command that receives the archive.
func remoteUnpackCommand(remotePath string) string {
	quoted := util.QuoteArgForShell(remotePath)
	return strings.Join([]string{
		"mkdir", "-p", quoted, "&&",
		"tar", "-xzf", "-", "-C", quoted,
	}, " ")
}

// CountEntries returns how many files writeArchive would ship. Used for
// progress reporting before a deploy.
func CountEntries(outDir string) (int, error) {
	var count int
	err := walkRegularFiles(outDir, func(string, os.FileInfo) error {
		count++
		return nil
	})
	return count, err
}
