// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package preview

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pagewright/internal/site"
	"pagewright/internal/stamp"

	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) (*Server, site.Site) {
	t.Helper()
	root := t.TempDir()
	s := site.Defaults(root)
	require.NoError(t, os.MkdirAll(s.OutputDir(), 0755))
	return New(s), s
}

func getStatus(t *testing.T, srv *Server) Status {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return status
}

func TestHandleStatus_FreshSite_ReportsDomainAndOutput(t *testing.T) {
	srv, s := testServer(t)

	status := getStatus(t, srv)
	require.Equal(t, "calculus.dogwood.cloud", status.Domain)
	require.Equal(t, s.OutputDir(), status.Output)
	require.Empty(t, status.Stamped)
	require.Nil(t, status.LastBuild)
}

func TestHandleStatus_StampedOutput_ReportsStampedDomain(t *testing.T) {
	srv, s := testServer(t)
	_, err := stamp.Write(s.OutputDir(), "calculus.dogwood.cloud")
	require.NoError(t, err)

	status := getStatus(t, srv)
	require.Equal(t, "calculus.dogwood.cloud", status.Stamped)
}

func TestHandleStatus_AfterRecordBuild_ReportsOutcome(t *testing.T) {
	srv, _ := testServer(t)
	srv.RecordBuild(42*time.Millisecond, nil)

	status := getStatus(t, srv)
	require.NotNil(t, status.LastBuild)
	require.Equal(t, 42*time.Millisecond, status.LastBuild.Duration)
	require.Empty(t, status.LastBuild.Err)
}

func TestHandleStatus_FailedBuild_ReportsError(t *testing.T) {
	srv, _ := testServer(t)
	srv.RecordBuild(0, errors.New("trunk exited with status 1"))

	status := getStatus(t, srv)
	require.NotNil(t, status.LastBuild)
	require.Equal(t, "trunk exited with status 1", status.LastBuild.Err)
}

func TestServer_RootServesIndexContent(t *testing.T) {
	srv, s := testServer(t)
	content := "<html><body>calculus</body></html>"
	require.NoError(t, os.WriteFile(filepath.Join(s.OutputDir(), "index.html"), []byte(content), 0644))

	// FileServer redirects /index.html to /, so the index is fetched at the
	// root path.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, content, rec.Body.String())
}

func TestServer_ServesBuildOutputFiles(t *testing.T) {
	srv, s := testServer(t)
	content := "wasm-bytes"
	require.NoError(t, os.WriteFile(filepath.Join(s.OutputDir(), "app.wasm"), []byte(content), 0644))

	req := httptest.NewRequest(http.MethodGet, "/app.wasm", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, content, rec.Body.String())
}

func TestServer_MissingFile_Returns404(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/nope.html", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
