package config

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherReload(t *testing.T) {
	path := writeConfig(t, "[output]\nindent = 2\n")

	reloaded := make(chan *Config, 4)
	w := NewWatcher(path, 20*time.Millisecond, func(cfg *Config) error {
		reloaded <- cfg
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	expectNone := func(reason string) {
		t.Helper()
		select {
		case cfg := <-reloaded:
			t.Fatalf("unexpected reload (%s): %+v", reason, cfg.Output)
		case <-time.After(300 * time.Millisecond):
		}
	}

	if err := os.WriteFile(path, []byte("[output]\nindent = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	expectNone("identical content")

	if err := os.WriteFile(path, []byte("[output]\nindent = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case cfg := <-reloaded:
		if cfg.Output.Indent != 4 {
			t.Errorf("Expected indent 4, got %d", cfg.Output.Indent)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if err := os.WriteFile(path, []byte("[output]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	expectNone("invalid config")
}

func TestWatcherRejectedReloadIsRetried(t *testing.T) {
	path := writeConfig(t, "[output]\nindent = 2\n")

	calls := make(chan int, 4)
	var accept atomic.Bool
	w := NewWatcher(path, 20*time.Millisecond, func(cfg *Config) error {
		calls <- cfg.Output.Indent
		if accept.CompareAndSwap(false, true) {
			return os.ErrInvalid
		}
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	for i := 0; i < 2; i++ {
		if err := os.WriteFile(path, []byte("[output]\nindent = 6\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case indent := <-calls:
			if indent != 6 {
				t.Errorf("Expected indent 6, got %d", indent)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out waiting for reload %d", i+1)
		}
	}
}
