// Package bot implements the Discord side of stampbot: slash commands for
// timestamp generation and timezone settings, plus the prefix commands !poll
// and !clear.
package bot

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"stampbot/internal/botcfg"
	"stampbot/internal/store"
	"stampbot/internal/timestamp"
	"stampbot/internal/usage"
)

// embedColor is the accent color for bot embeds (Discord's blurple-adjacent blue).
const embedColor = 0x3498db

// ConfigSource yields the current behavior configuration. The botcfg.Watcher
// satisfies it; tests use a static source.
type ConfigSource interface {
	Get() *botcfg.Config
}

// Bot owns the Discord session and its handlers.
type Bot struct {
	session *discordgo.Session
	store   store.Store
	cfg     ConfigSource
	usage   *usage.Logger
	logger  *zap.Logger
	ready   atomic.Bool
}

// New builds a Bot around a fresh Discord session. The session is not opened
// until Start.
func New(token string, st store.Store, cfg ConfigSource, ul *usage.Logger, logger *zap.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildMessageReactions |
		discordgo.IntentMessageContent

	b := &Bot{
		session: session,
		store:   st,
		cfg:     cfg,
		usage:   ul,
		logger:  logger,
	}

	session.AddHandler(b.onReady)
	session.AddHandler(b.onInteraction)
	session.AddHandler(b.onMessage)

	return b, nil
}

// Start opens the gateway connection. The session becomes usable once the
// ready event has fired.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	return nil
}

// Shutdown closes the gateway connection.
func (b *Bot) Shutdown() error {
	b.ready.Store(false)
	return b.session.Close()
}

// Ready reports whether the session has reached its ready state.
func (b *Bot) Ready() bool {
	return b.ready.Load()
}

// ApplyConfig reacts to a behavior config reload. Currently only the
// presence text changes at runtime; command definitions are fixed per
// session.
func (b *Bot) ApplyConfig(cfg *botcfg.Config) {
	if !b.ready.Load() {
		return
	}
	if err := b.session.UpdateGameStatus(0, cfg.StatusText); err != nil {
		b.logger.Warn("update presence", zap.Error(err))
	}
}

// onReady sets the presence and syncs the slash command definitions.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if err := s.UpdateGameStatus(0, b.cfg.Get().StatusText); err != nil {
		b.logger.Warn("update presence", zap.Error(err))
	}

	synced, err := s.ApplicationCommandBulkOverwrite(r.User.ID, "", commandDefinitions())
	if err != nil {
		b.logger.Error("sync slash commands", zap.Error(err))
	} else {
		b.logger.Info("slash commands synced", zap.Int("count", len(synced)))
	}

	b.ready.Store(true)
	b.logger.Info("bot is ready", zap.String("user", r.User.String()))
}

// commandDefinitions returns the slash commands the bot registers globally.
func commandDefinitions() []*discordgo.ApplicationCommand {
	styleChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(timestamp.StyleChoices))
	for _, c := range timestamp.StyleChoices {
		styleChoices = append(styleChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  c.Name,
			Value: string(c.Value),
		})
	}

	manageGuild := int64(discordgo.PermissionManageServer)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "timestamp",
			Description: "Generate a Discord-compatible timestamp from a date/time.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "date_time",
					Description: "The date and time (e.g. '2025-01-01 10:00', '31-12-2025 23:59', '12-31-2025 11:59PM').",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "timezone",
					Description: "Optional: the timezone for the input. Overrides user/server defaults.",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "format_style",
					Description: "Optional: the desired display format.",
					Choices:     styleChoices,
				},
			},
		},
		{
			Name:        "set_my_timezone",
			Description: "Set your personal default timezone for timestamp generation.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "timezone",
					Description: "The timezone name (e.g. Europe/Amsterdam, America/New_York)",
					Required:    true,
				},
			},
		},
		{
			Name:                     "set_server_timezone",
			Description:              "Set the default timezone for this server. (Admins only)",
			DefaultMemberPermissions: &manageGuild,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "timezone",
					Description: "The timezone name (e.g. Europe/Amsterdam, America/New_York)",
					Required:    true,
				},
			},
		},
	}
}

// recordUsage appends one usage-log entry for a handled command.
func (b *Bot) recordUsage(command, userID, guildID string, start time.Time, cmdErr error) {
	entry := usage.Entry{
		Command:  command,
		UserID:   userID,
		GuildID:  guildID,
		Outcome:  "ok",
		Duration: float64(time.Since(start).Milliseconds()),
	}
	if cmdErr != nil {
		entry.Outcome = "error"
		entry.Error = cmdErr.Error()
	}
	if err := b.usage.Record(entry); err != nil {
		b.logger.Warn("record usage", zap.Error(err))
	}
}
