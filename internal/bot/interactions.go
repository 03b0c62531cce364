package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"stampbot/internal/timestamp"
)

// interactionTimeout bounds the store lookups behind a single interaction.
const interactionTimeout = 10 * time.Second

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case "timestamp":
		b.handleTimestamp(s, i, data)
	case "set_my_timezone":
		b.handleSetUserTimezone(s, i, data)
	case "set_server_timezone":
		b.handleSetGuildTimezone(s, i, data)
	}
}

// interactionUser returns the invoking user, which lives under Member in
// guilds and directly on the interaction in DMs.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// optionValue returns the string value of a named option, or empty.
func optionValue(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// deferEphemeral acknowledges the interaction so the handler can take its
// time; the eventual reply is only visible to the invoking user.
func (b *Bot) deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		b.logger.Error("defer interaction", zap.Error(err))
		return false
	}
	return true
}

func (b *Bot) followupText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		b.logger.Error("send followup", zap.Error(err))
	}
}

func (b *Bot) followupEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		b.logger.Error("send followup embed", zap.Error(err))
	}
}

func (b *Bot) handleTimestamp(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	start := time.Now()
	user := interactionUser(i)

	if !b.deferEphemeral(s, i) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	style := timestamp.Style(optionValue(data, "format_style"))
	if style == "" {
		style = timestamp.Style(b.cfg.Get().Timestamp.DefaultStyle)
	}

	embed, userErr := b.buildTimestamp(ctx, timestampRequest{
		DateTime: optionValue(data, "date_time"),
		Timezone: optionValue(data, "timezone"),
		Style:    style,
		UserID:   user.ID,
		GuildID:  i.GuildID,
	})
	if userErr != nil {
		b.followupText(s, i, userErr.Error())
		b.recordUsage("timestamp", user.ID, i.GuildID, start, userErr)
		return
	}

	b.followupEmbed(s, i, embed)
	b.recordUsage("timestamp", user.ID, i.GuildID, start, nil)
}

// timestampRequest carries the resolved inputs of one /timestamp invocation.
type timestampRequest struct {
	DateTime string
	Timezone string
	Style    timestamp.Style
	UserID   string
	GuildID  string
}

// buildTimestamp turns a request into the reply embed. Errors are
// user-facing messages, already worded for the followup.
func (b *Bot) buildTimestamp(ctx context.Context, req timestampRequest) (*discordgo.MessageEmbed, error) {
	zoneName, zoneNote := b.resolveZone(ctx, req.Timezone, req.UserID, req.GuildID)

	loc, err := timestamp.LoadZone(zoneName)
	if err != nil {
		return nil, fmt.Errorf("❌ Timezone Error: The timezone `%s` is invalid. Please check the spelling. Example: `Europe/London`.", zoneName)
	}

	localized, err := timestamp.ParseInZone(req.DateTime, loc)
	if err != nil {
		return nil, fmt.Errorf("❌ Date/Time Format Error: Could not parse `%s`. Please use a format like `YYYY-MM-DD HH:MM`, `DD-MM-YYYY HH:MM`, or `MM-DD-YYYY HH:MM` (e.g. `2025-12-31 23:59`).", req.DateTime)
	}

	style := req.Style
	if !timestamp.ValidStyle(style) {
		style = timestamp.DefaultStyle
	}
	code := timestamp.Render(localized, style)

	description := fmt.Sprintf("**Input Time:** %s %s", localized.Format("02-01-2006 15:04"), strings.ToUpper(zoneName))
	if zoneNote != "" {
		description += " " + zoneNote
	}
	description += fmt.Sprintf("\n**Unix Time:** `%d`", localized.Unix())

	return &discordgo.MessageEmbed{
		Title:       "⏱️ Generated Timestamp",
		Description: description,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  fmt.Sprintf("Selected Format: %s (`%s`)", timestamp.StyleName(style), style),
				Value: fmt.Sprintf("**Code to Copy:**\n`%s`\n\n**Preview (in Discord):** %s", code, code),
			},
		},
	}, nil
}

func (b *Bot) handleSetUserTimezone(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	start := time.Now()
	user := interactionUser(i)
	zone := optionValue(data, "timezone")

	if !b.deferEphemeral(s, i) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	if _, err := timestamp.LoadZone(zone); err != nil {
		b.followupText(s, i, fmt.Sprintf("❌ Timezone Error: The timezone `%s` is invalid. Please check the spelling. Example: `Europe/London`.", zone))
		b.recordUsage("set_my_timezone", user.ID, i.GuildID, start, err)
		return
	}

	if err := b.store.SetUserTimezone(ctx, user.ID, zone); err != nil {
		b.logger.Error("save user timezone", zap.String("user_id", user.ID), zap.Error(err))
		b.followupText(s, i, "An unexpected error occurred while saving your timezone. Please try again.")
		b.recordUsage("set_my_timezone", user.ID, i.GuildID, start, err)
		return
	}

	b.followupText(s, i, fmt.Sprintf("✅ Your **personal** default timezone has been set to `%s`.", zone))
	b.recordUsage("set_my_timezone", user.ID, i.GuildID, start, nil)
}

func (b *Bot) handleSetGuildTimezone(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	start := time.Now()
	user := interactionUser(i)
	zone := optionValue(data, "timezone")

	if i.GuildID == "" {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "This command can only be used in a server.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			b.logger.Error("respond to interaction", zap.Error(err))
		}
		b.recordUsage("set_server_timezone", user.ID, "", start, errors.New("not in a guild"))
		return
	}

	if !b.deferEphemeral(s, i) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	if _, err := timestamp.LoadZone(zone); err != nil {
		b.followupText(s, i, fmt.Sprintf("❌ Timezone Error: The timezone `%s` is invalid. Please check the spelling. Example: `Europe/London`.", zone))
		b.recordUsage("set_server_timezone", user.ID, i.GuildID, start, err)
		return
	}

	if err := b.store.SetGuildTimezone(ctx, i.GuildID, zone); err != nil {
		b.logger.Error("save guild timezone", zap.String("guild_id", i.GuildID), zap.Error(err))
		b.followupText(s, i, "An unexpected error occurred while saving the server timezone. Please try again.")
		b.recordUsage("set_server_timezone", user.ID, i.GuildID, start, err)
		return
	}

	b.followupText(s, i, fmt.Sprintf("✅ The **server's** default timezone has been set to `%s`.", zone))
	b.recordUsage("set_server_timezone", user.ID, i.GuildID, start, nil)
}
