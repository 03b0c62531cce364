package bot

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stampbot/internal/store"
)

// Notes appended to the timestamp reply when a stored default supplied the
// timezone.
const (
	zoneNoteUser  = "(Your Personal Default)"
	zoneNoteGuild = "(Server Default)"
)

// resolveZone applies the timezone priority: explicit argument, then the
// user's saved timezone, then the guild default, then UTC. Store failures
// other than a missing setting are logged and treated as unset, so a
// degraded database never blocks timestamp generation.
func (b *Bot) resolveZone(ctx context.Context, explicit, userID, guildID string) (name, note string) {
	if explicit != "" {
		return explicit, ""
	}

	if tz, err := b.store.UserTimezone(ctx, userID); err == nil {
		return tz, zoneNoteUser
	} else if !errors.Is(err, store.ErrNotFound) {
		b.logger.Warn("load user timezone", zap.String("user_id", userID), zap.Error(err))
	}

	if guildID != "" {
		if tz, err := b.store.GuildTimezone(ctx, guildID); err == nil {
			return tz, zoneNoteGuild
		} else if !errors.Is(err, store.ErrNotFound) {
			b.logger.Warn("load guild timezone", zap.String("guild_id", guildID), zap.Error(err))
		}
	}

	return "UTC", ""
}
