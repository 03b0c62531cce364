// Package store persists per-user and per-guild bot settings.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no setting exists for the given ID.
var ErrNotFound = errors.New("setting not found")

// Store is the settings persistence interface. IDs are Discord snowflakes.
type Store interface {
	// UserTimezone returns the user's saved timezone, or ErrNotFound.
	UserTimezone(ctx context.Context, userID string) (string, error)
	// SetUserTimezone saves the user's timezone, creating the record if needed.
	SetUserTimezone(ctx context.Context, userID, timezone string) error
	// GuildTimezone returns the guild's default timezone, or ErrNotFound.
	GuildTimezone(ctx context.Context, guildID string) (string, error)
	// SetGuildTimezone saves the guild's default timezone, creating the record if needed.
	SetGuildTimezone(ctx context.Context, guildID, timezone string) error
	// Close releases any underlying connections.
	Close(ctx context.Context) error
}
