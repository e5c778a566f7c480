package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var headerExts = []string{".h", ".inl"}

func waitFor(t *testing.T, changed <-chan []string, want string, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case paths := <-changed:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change to %s", want)
		}
	}
}

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, headerExts, nil, nil)
	if err == nil {
		t.Fatal("expected error for nil callback")
	}
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsBadPattern(t *testing.T) {
	if _, err := NewWatcher(time.Millisecond, headerExts, []string{"["}, func([]string) {}); err == nil {
		t.Fatal("expected error for invalid exclude pattern")
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, headerExts, []string{"*_deprecated.h"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	header := filepath.Join(tmpDir, "eos_auth.h")
	if err := os.WriteFile(header, []byte("#pragma once\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, header, 2*time.Second)

	for _, name := range []string{"eos_auth_deprecated.h", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case paths := <-changedFiles:
		t.Errorf("excluded files triggered event: %v", paths)
	case <-time.After(400 * time.Millisecond):
	}

	subdir := filepath.Join(tmpDir, "Include")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(subdir, "eos_nested.inl")
	if err := os.WriteFile(nested, []byte("// inline\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, nested, 2*time.Second)
}

func TestWatcher_IdenticalWriteIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	header := filepath.Join(tmpDir, "eos_sdk.h")
	content := []byte("#define EOS_SDK 1\n")
	if err := os.WriteFile(header, content, 0o644); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(50*time.Millisecond, headerExts, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(header, content, 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case paths := <-changedFiles:
		t.Errorf("unexpected event for identical content: %v", paths)
	case <-time.After(300 * time.Millisecond):
	}

	if err := os.WriteFile(header, []byte("#define EOS_SDK 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changedFiles, header, 2*time.Second)
}

func TestWatcher_RenameTriggersChange(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 8)
	w, err := NewWatcher(100*time.Millisecond, headerExts, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	oldPath := filepath.Join(tmpDir, "eos_old.h")
	newPath := filepath.Join(tmpDir, "eos_new.h")
	if err := os.WriteFile(oldPath, []byte("#pragma once\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == oldPath || p == newPath {
					return
				}
			}
		case <-timeout:
			t.Fatalf("timed out waiting for rename event, old=%s new=%s", oldPath, newPath)
		}
	}
}

func TestWatcher_ExtensionFilter(t *testing.T) {
	w, err := NewWatcher(10*time.Millisecond, []string{".H"}, []string{"eos_version.h"}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if !w.shouldExcludeFile("eos_auth.inl") {
		t.Error("expected .inl to be excluded when only .h is enabled")
	}
	if w.shouldExcludeFile("/sdk/Include/eos_auth.h") {
		t.Error("expected .h header to be watched")
	}
	if !w.shouldExcludeFile("/sdk/Include/eos_version.h") {
		t.Error("expected excluded file pattern to apply to the base name")
	}
}
