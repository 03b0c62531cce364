package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stampbot/internal/botcfg"
	"stampbot/internal/store"
	"stampbot/internal/timestamp"
	"stampbot/internal/usage"
)

// staticConfig is a ConfigSource serving a fixed configuration.
type staticConfig struct {
	cfg *botcfg.Config
}

func (s staticConfig) Get() *botcfg.Config { return s.cfg }

func newTestBot(t *testing.T, st store.Store) *Bot {
	t.Helper()
	ul, err := usage.NewLogger("")
	require.NoError(t, err)

	b, err := New("test-token", st, staticConfig{cfg: botcfg.Default()}, ul, zap.NewNop())
	require.NoError(t, err)
	return b
}

func TestResolveZonePriority(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.SetUserTimezone(ctx, "user-1", "Europe/Amsterdam"))
	require.NoError(t, st.SetGuildTimezone(ctx, "guild-1", "America/New_York"))

	b := newTestBot(t, st)

	tests := []struct {
		name     string
		explicit string
		userID   string
		guildID  string
		wantZone string
		wantNote string
	}{
		{"argument wins over everything", "Asia/Tokyo", "user-1", "guild-1", "Asia/Tokyo", ""},
		{"user setting wins over guild", "", "user-1", "guild-1", "Europe/Amsterdam", zoneNoteUser},
		{"guild setting when user unset", "", "user-2", "guild-1", "America/New_York", zoneNoteGuild},
		{"utc fallback", "", "user-2", "guild-2", "UTC", ""},
		{"utc fallback in dm", "", "user-2", "", "UTC", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone, note := b.resolveZone(ctx, tt.explicit, tt.userID, tt.guildID)
			assert.Equal(t, tt.wantZone, zone)
			assert.Equal(t, tt.wantNote, note)
		})
	}
}

func TestBuildTimestamp(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	require.NoError(t, st.SetUserTimezone(ctx, "user-1", "UTC"))

	b := newTestBot(t, st)

	embed, err := b.buildTimestamp(ctx, timestampRequest{
		DateTime: "2021-04-20 16:20",
		Style:    timestamp.StyleLongFull,
		UserID:   "user-1",
	})
	require.NoError(t, err)
	require.NotNil(t, embed)

	assert.Equal(t, "⏱️ Generated Timestamp", embed.Title)
	assert.Contains(t, embed.Description, "**Input Time:** 20-04-2021 16:20 UTC "+zoneNoteUser)
	assert.Contains(t, embed.Description, "**Unix Time:** `1618935600`")
	require.Len(t, embed.Fields, 1)
	assert.Contains(t, embed.Fields[0].Name, "Full Date/Time")
	assert.Contains(t, embed.Fields[0].Value, "<t:1618935600:F>")
}

func TestBuildTimestampExplicitZone(t *testing.T) {
	b := newTestBot(t, store.NewMemory())

	embed, err := b.buildTimestamp(context.Background(), timestampRequest{
		DateTime: "2021-04-20 18:20",
		Timezone: "Europe/Amsterdam", // UTC+2 in April
		Style:    timestamp.StyleShortTime,
		UserID:   "user-1",
	})
	require.NoError(t, err)
	assert.Contains(t, embed.Fields[0].Value, "<t:1618935600:t>")
	assert.Contains(t, embed.Description, "EUROPE/AMSTERDAM")
	assert.NotContains(t, embed.Description, zoneNoteUser)
}

func TestBuildTimestampBadInput(t *testing.T) {
	b := newTestBot(t, store.NewMemory())

	_, err := b.buildTimestamp(context.Background(), timestampRequest{
		DateTime: "not a date",
		UserID:   "user-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Date/Time Format Error")
}

func TestBuildTimestampBadStoredZone(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	// A zone that got into the store before validation existed.
	require.NoError(t, st.SetUserTimezone(ctx, "user-1", "Mars/Olympus"))

	b := newTestBot(t, st)

	_, err := b.buildTimestamp(ctx, timestampRequest{
		DateTime: "2021-04-20 16:20",
		UserID:   "user-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Timezone Error")
}

func TestCommandDefinitions(t *testing.T) {
	defs := commandDefinitions()
	require.Len(t, defs, 3)

	byName := make(map[string]int)
	for idx, def := range defs {
		byName[def.Name] = idx
	}
	require.Contains(t, byName, "timestamp")
	require.Contains(t, byName, "set_my_timezone")
	require.Contains(t, byName, "set_server_timezone")

	ts := defs[byName["timestamp"]]
	require.Len(t, ts.Options, 3)
	assert.True(t, ts.Options[0].Required)
	assert.Len(t, ts.Options[2].Choices, len(timestamp.StyleChoices))

	server := defs[byName["set_server_timezone"]]
	require.NotNil(t, server.DefaultMemberPermissions)
}
