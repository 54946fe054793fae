// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package preview serves the build output directory over HTTP for local
// inspection before publishing, along with a small status API.
package preview

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"pagewright/internal/site"
	"pagewright/internal/stamp"

	"github.com/gorilla/mux"
)

// BuildInfo records the outcome of the most recent build, for the status
// endpoint.
type BuildInfo struct {
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration_ns"`
	Err        string        `json:"error,omitempty"`
}

// Status is the payload of GET /api/status.
type Status struct {
	Domain    string     `json:"domain"`
	Output    string     `json:"output"`
	Stamped   string     `json:"stamped_domain,omitempty"`
	LastBuild *BuildInfo `json:"last_build,omitempty"`
}

// Server serves the site's build output and status API.
type Server struct {
	site   site.Site
	router *mux.Router

	mu        sync.Mutex
	lastBuild *BuildInfo
}

func New(s site.Site) *Server {
	srv := &Server{site: s, router: mux.NewRouter()}

	srv.router.HandleFunc("/api/status", srv.handleStatus).Methods(http.MethodGet)
	// Static files last so API routes take precedence.
	srv.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.OutputDir())))

	return srv
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// RecordBuild stores the outcome of a build so the status endpoint can
// report it. Used by watch mode, which rebuilds while the server runs.
func (s *Server) RecordBuild(d time.Duration, err error) {
	info := &BuildInfo{FinishedAt: time.Now(), Duration: d}
	if err != nil {
		info.Err = err.Error()
	}
	s.mu.Lock()
	s.lastBuild = info
	s.mu.Unlock()
}

// ListenAndServe blocks serving on the given port.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stamped, err := stamp.Read(s.site.OutputDir())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	last := s.lastBuild
	s.mu.Unlock()

	status := Status{
		Domain:    s.site.Domain,
		Output:    s.site.OutputDir(),
		Stamped:   stamped,
		LastBuild: last,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
