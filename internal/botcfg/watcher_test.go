package botcfg

import (
	"context"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWatcherStartStop(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "command_prefix: '!'\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	w, err := NewWatcher(path, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if got := w.Get(); got.CommandPrefix != "!" {
		t.Errorf("Get().CommandPrefix = %q, want !", got.CommandPrefix)
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestWatcherReload(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "status_text: before\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	w, err := NewWatcher(path, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	reloaded := make(chan *Config, 1)
	w.OnReload(func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("status_text: after\n"), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case c := <-reloaded:
		if c.StatusText != "after" {
			t.Errorf("reloaded StatusText = %q, want after", c.StatusText)
		}
		if w.Get().StatusText != "after" {
			t.Errorf("Get().StatusText = %q, want after", w.Get().StatusText)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherKeepsConfigOnBadReload(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "status_text: good\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	w, err := NewWatcher(path, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("poll: [broken\n"), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	// Give the debounced reload time to run, then verify the previous
	// config is still served.
	time.Sleep(2 * debounceDuration)
	if got := w.Get().StatusText; got != "good" {
		t.Errorf("Get().StatusText = %q, want good", got)
	}
}
