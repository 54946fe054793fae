// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package stamp writes the CNAME stamp file that configures the custom
// domain for static-site hosting. The stamp is deployed alongside the build
// output and overwritten on every successful publish.
package stamp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the fixed name of the stamp file inside the output directory.
const FileName = "CNAME"

// Write puts the domain, followed by a newline, into outDir/CNAME,
// creating or truncating the file. The output directory must already exist;
// it is part of the committed site tree, not something pagewright creates.
// Returns the path of the written file.
func Write(outDir, domain string) (string, error) {
	info, err := os.Stat(outDir)
	if err != nil {
		return "", fmt.Errorf("output directory %s is not accessible: %w", outDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output path %s is not a directory", outDir)
	}

	path := filepath.Join(outDir, FileName)
	if err := os.WriteFile(path, []byte(domain+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write stamp file %s: %w", path, err)
	}
	return path, nil
}

// Read returns the domain currently stamped in outDir, with surrounding
// whitespace trimmed. A missing stamp file yields an empty domain, not an
// error.
func Read(outDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(outDir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read stamp file in %s: %w", outDir, err)
	}
	return strings.TrimSpace(string(data)), nil
}
