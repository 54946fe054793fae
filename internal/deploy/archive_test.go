// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package deploy

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// readArchive unpacks a gzipped tar stream into a name -> content map.
func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()

	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer gz.Close()

	entries := make(map[string]string)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = string(content)
	}
	return entries
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWriteArchive_SiteTree_EntriesAreRelativeSlashPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(dir, "CNAME"), "calculus.dogwood.cloud\n")
	writeFile(t, filepath.Join(dir, "assets", "app.wasm"), "wasm-bytes")

	var buf bytes.Buffer
	require.NoError(t, writeArchive(&buf, dir))

	entries := readArchive(t, buf.Bytes())
	require.Len(t, entries, 3)
	require.Equal(t, "<html></html>", entries["index.html"])
	require.Equal(t, "calculus.dogwood.cloud\n", entries["CNAME"])
	require.Equal(t, "wasm-bytes", entries["assets/app.wasm"])
}

func TestWriteArchive_EmptyDir_ProducesEmptyArchive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeArchive(&buf, t.TempDir()))
	require.Empty(t, readArchive(t, buf.Bytes()))
}

func TestWriteArchive_Symlinks_AreSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "<html></html>")
	require.NoError(t, os.Symlink("index.html", filepath.Join(dir, "link.html")))

	var buf bytes.Buffer
	require.NoError(t, writeArchive(&buf, dir))

	entries := readArchive(t, buf.Bytes())
	require.Len(t, entries, 1)
	require.Contains(t, entries, "index.html")
}

func TestCountEntries_MatchesArchiveContents(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "a")
	writeFile(t, filepath.Join(dir, "docs", "page.html"), "b")
	writeFile(t, filepath.Join(dir, "docs", "deep", "page.html"), "c")

	count, err := CountEntries(dir)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestRemoteFailure_IncludesCapturedStderr(t *testing.T) {
	cause := errors.New("wait: remote command failed")

	err := remoteFailure("webserver", "tar: short read\n", cause)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "webserver")
	require.Contains(t, err.Error(), "tar: short read")
}

func TestRemoteFailure_EmptyStderr_OmitsDetail(t *testing.T) {
	err := remoteFailure("webserver", "  \n", errors.New("boom"))
	require.NotContains(t, err.Error(), ": : ")
	require.Contains(t, err.Error(), "remote unpack on webserver failed")
}

func TestRemoteUnpackCommand_QuotesRemotePath(t *testing.T) {
	cmd := remoteUnpackCommand("/srv/bob's site")
	require.Equal(t, `mkdir -p '/srv/bob'\''s site' && tar -xzf - -C '/srv/bob'\''s site'`, cmd)
}

func TestRemoteUnpackCommand_TildePath_AllowsRemoteExpansion(t *testing.T) {
	cmd := remoteUnpackCommand("~/public_html")
	require.Equal(t, `mkdir -p ~/'public_html' && tar -xzf - -C ~/'public_html'`, cmd)
}
