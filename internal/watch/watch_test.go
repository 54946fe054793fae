// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatch_NoExistingPaths_ReturnsError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone")

	err := Watch(context.Background(), []string{missing}, DefaultDebounce, func() error { return nil })
	require.Error(t, err)
}

func TestWatch_FileChange_TriggersRebuild(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(file, []byte("v1"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rebuilt := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{dir}, 20*time.Millisecond, func() error {
			select {
			case rebuilt <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("v2"), 0644))

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild was not triggered by file change")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatch_BurstOfChanges_CoalescesIntoOneRebuild(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(file, []byte("v0"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rebuilds atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{dir}, 200*time.Millisecond, func() error {
			rebuilds.Add(1)
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(file, []byte("burst"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	// Wait past the debounce window, then long enough to catch a spurious
	// second rebuild if coalescing were broken.
	time.Sleep(time.Second)
	require.Equal(t, int32(1), rebuilds.Load())

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatch_RebuildError_KeepsWatching(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(file, []byte("v1"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{dir}, 20*time.Millisecond, func() error {
			calls <- struct{}{}
			return os.ErrPermission
		})
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("v2"), 0644))

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("first rebuild was not triggered")
	}

	// A failed rebuild must not stop the loop; a later change still fires.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(file, []byte("v3"), 0644))

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher stopped after rebuild error")
	}

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestAddPath_MissingPath_SkippedWithoutError(t *testing.T) {
	// Watch paths are optional by design: a site may have no Trunk.toml.
	dir := t.TempDir()
	existing := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(existing, 0755))
	missing := filepath.Join(dir, "Trunk.toml")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Watch(ctx, []string{existing, missing}, DefaultDebounce, func() error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}
