// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package watch monitors site sources and triggers a rebuild callback when
// they change. Rapid change bursts (editor save storms, trunk touching
// intermediate files) are debounced into a single rebuild.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pagewright/internal/logger"
)

// DefaultDebounce batches change events before a rebuild fires.
const DefaultDebounce = 300 * time.Millisecond

// Watch blocks watching the given paths (files, or directories watched
// recursively) until ctx is canceled. Each debounced batch of changes calls
// rebuild; its error is logged and watching continues, so a broken edit
// doesn't kill the loop.
func Watch(ctx context.Context, paths []string, debounce time.Duration, rebuild func() error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, p := range paths {
		n, err := addPath(watcher, p)
		if err != nil {
			return err
		}
		watched += n
	}
	if watched == 0 {
		return fmt.Errorf("none of the watch paths exist: %v", paths)
	}

	trigger, rebuildReq := debouncer(debounce)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories need to join the watch set for recursion.
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if _, addErr := addPath(watcher, event.Name); addErr != nil {
						logger.Warnf("Could not watch new directory %s: %v", event.Name, addErr)
					}
				}
			}
			trigger()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Errorf("Watcher error: %v", err)

		case <-rebuildReq:
			if err := rebuild(); err != nil {
				logger.Errorf("Rebuild failed: %v", err)
			}
		}
	}
}

// addPath registers a path with the watcher; directories are added
// recursively. Missing paths are skipped. Returns how many entries were
// added.
func addPath(watcher *fsnotify.Watcher, path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to stat watch path %s: %w", path, err)
	}

	if !info.IsDir() {
		if err := watcher.Add(path); err != nil {
			return 0, fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return 1, nil
	}

	count := 0
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}

// debouncer coalesces triggers into a buffered request channel.
func debouncer(d time.Duration) (func(), chan struct{}) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return trigger, rebuildReq
}
