package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and local development runs
// where no MongoDB is available.
type Memory struct {
	mu     sync.RWMutex
	users  map[string]string
	guilds map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:  make(map[string]string),
		guilds: make(map[string]string),
	}
}

func (m *Memory) UserTimezone(_ context.Context, userID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tz, ok := m.users[userID]
	if !ok {
		return "", ErrNotFound
	}
	return tz, nil
}

func (m *Memory) SetUserTimezone(_ context.Context, userID, timezone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = timezone
	return nil
}

func (m *Memory) GuildTimezone(_ context.Context, guildID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tz, ok := m.guilds[guildID]
	if !ok {
		return "", ErrNotFound
	}
	return tz, nil
}

func (m *Memory) SetGuildTimezone(_ context.Context, guildID, timezone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guilds[guildID] = timezone
	return nil
}

func (m *Memory) Close(context.Context) error {
	return nil
}
