package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

// exerciseStore runs the Store contract against any implementation.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.UserTimezone(ctx, "100"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UserTimezone on empty store: got %v, want ErrNotFound", err)
	}
	if _, err := s.GuildTimezone(ctx, "200"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GuildTimezone on empty store: got %v, want ErrNotFound", err)
	}

	if err := s.SetUserTimezone(ctx, "100", "Europe/Amsterdam"); err != nil {
		t.Fatalf("SetUserTimezone: %v", err)
	}
	if tz, err := s.UserTimezone(ctx, "100"); err != nil || tz != "Europe/Amsterdam" {
		t.Errorf("UserTimezone = %q, %v; want Europe/Amsterdam", tz, err)
	}

	// Set again: upsert semantics, no duplicate-key error.
	if err := s.SetUserTimezone(ctx, "100", "America/New_York"); err != nil {
		t.Fatalf("SetUserTimezone (update): %v", err)
	}
	if tz, _ := s.UserTimezone(ctx, "100"); tz != "America/New_York" {
		t.Errorf("UserTimezone after update = %q, want America/New_York", tz)
	}

	if err := s.SetGuildTimezone(ctx, "200", "Europe/London"); err != nil {
		t.Fatalf("SetGuildTimezone: %v", err)
	}
	if tz, err := s.GuildTimezone(ctx, "200"); err != nil || tz != "Europe/London" {
		t.Errorf("GuildTimezone = %q, %v; want Europe/London", tz, err)
	}

	// User and guild namespaces are independent even with colliding IDs.
	if err := s.SetGuildTimezone(ctx, "100", "Asia/Tokyo"); err != nil {
		t.Fatalf("SetGuildTimezone: %v", err)
	}
	if tz, _ := s.UserTimezone(ctx, "100"); tz != "America/New_York" {
		t.Errorf("user setting clobbered by guild setting: got %q", tz)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Connect(ctx, uri, "stampbot_test", zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close(context.Background())

	// Start from a clean slate.
	if err := s.users.Drop(ctx); err != nil {
		t.Fatalf("drop users: %v", err)
	}
	if err := s.guilds.Drop(ctx); err != nil {
		t.Fatalf("drop guilds: %v", err)
	}

	exerciseStore(t, s)
}
