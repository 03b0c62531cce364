package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"stampbot/internal/botcfg"
)

// bulkDeleteChunk is Discord's per-call limit on bulk message deletion.
const bulkDeleteChunk = 100

// confirmationTTL is how long the !clear confirmation stays visible.
const confirmationTTL = 5 * time.Second

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	cfg := b.cfg.Get()
	if !strings.HasPrefix(m.Content, cfg.CommandPrefix) {
		return
	}

	args := splitArgs(strings.TrimPrefix(m.Content, cfg.CommandPrefix))
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "poll":
		b.handlePoll(s, m, args[1:], cfg)
	case "clear":
		b.handleClear(s, m, args[1:], cfg)
	}
}

// splitArgs splits a command line into fields, keeping double-quoted
// sections together: `poll "favorite color?" red blue` yields four fields
// with the question intact.
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	flushed := true

	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			flushed = false
		case !inQuotes && (r == ' ' || r == '\t' || r == '\n'):
			if !flushed || current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
				flushed = true
			}
		default:
			current.WriteRune(r)
			flushed = false
		}
	}
	if !flushed || current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// pollOptionEmoji returns the regional-indicator letter for option index i
// (🇦 for 0, 🇧 for 1, ...). These render as selectable reactions in every
// Discord client.
func pollOptionEmoji(i int) string {
	return string(rune(0x1F1E6 + i))
}

// buildPollEmbed renders the poll embed and the reaction emojis to attach,
// one per option.
func buildPollEmbed(question string, options []string) (*discordgo.MessageEmbed, []string) {
	var description strings.Builder
	emojis := make([]string, len(options))
	for i, option := range options {
		emojis[i] = pollOptionEmoji(i)
		fmt.Fprintf(&description, "%s **%s**\n", emojis[i], option)
	}

	return &discordgo.MessageEmbed{
		Title:       "📊 NEW POLL: " + question,
		Description: description.String(),
		Color:       embedColor,
	}, emojis
}

func (b *Bot) handlePoll(s *discordgo.Session, m *discordgo.MessageCreate, args []string, cfg *botcfg.Config) {
	start := time.Now()

	if len(args) == 0 {
		b.reply(s, m, fmt.Sprintf("Usage: %spoll \"question\" option1 option2 ...", cfg.CommandPrefix))
		b.recordUsage("poll", m.Author.ID, m.GuildID, start, fmt.Errorf("missing question"))
		return
	}

	question, options := args[0], args[1:]
	if len(options) > cfg.Poll.MaxOptions {
		b.reply(s, m, fmt.Sprintf("You can only provide up to %d options for the poll.", cfg.Poll.MaxOptions))
		b.recordUsage("poll", m.Author.ID, m.GuildID, start, fmt.Errorf("too many options"))
		return
	}

	embed, emojis := buildPollEmbed(question, options)

	pollMessage, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)
	if err != nil {
		b.logger.Error("send poll embed", zap.Error(err))
		b.recordUsage("poll", m.Author.ID, m.GuildID, start, err)
		return
	}

	for _, emoji := range emojis {
		if err := s.MessageReactionAdd(m.ChannelID, pollMessage.ID, emoji); err != nil {
			b.logger.Warn("add poll reaction", zap.String("emoji", emoji), zap.Error(err))
		}
	}

	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		b.logger.Warn("delete poll command message", zap.Error(err))
	}

	b.recordUsage("poll", m.Author.ID, m.GuildID, start, nil)
}

// chunkIDs splits ids into slices of at most size elements.
func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

func (b *Bot) handleClear(s *discordgo.Session, m *discordgo.MessageCreate, args []string, cfg *botcfg.Config) {
	start := time.Now()

	if len(args) != 1 {
		b.reply(s, m, fmt.Sprintf("Usage: %sclear <amount>", cfg.CommandPrefix))
		b.recordUsage("clear", m.Author.ID, m.GuildID, start, fmt.Errorf("missing amount"))
		return
	}

	amount, err := strconv.Atoi(args[0])
	if err != nil || amount < 1 {
		b.reply(s, m, fmt.Sprintf("Usage: %sclear <amount>", cfg.CommandPrefix))
		b.recordUsage("clear", m.Author.ID, m.GuildID, start, fmt.Errorf("bad amount %q", args[0]))
		return
	}

	if amount > cfg.Clear.MaxMessages {
		b.reply(s, m, fmt.Sprintf("I can only clear up to %d messages at a time.", cfg.Clear.MaxMessages))
		b.recordUsage("clear", m.Author.ID, m.GuildID, start, fmt.Errorf("amount %d over cap", amount))
		return
	}

	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		b.logger.Error("check permissions", zap.Error(err))
		b.recordUsage("clear", m.Author.ID, m.GuildID, start, err)
		return
	}
	if perms&discordgo.PermissionManageMessages == 0 {
		b.reply(s, m, "You need the Manage Messages permission to use this command.")
		b.recordUsage("clear", m.Author.ID, m.GuildID, start, fmt.Errorf("missing manage messages permission"))
		return
	}

	// Collect the N most recent messages before the command, then delete
	// them together with the command message itself.
	history, err := s.ChannelMessages(m.ChannelID, amount, m.ID, "", "")
	if err != nil {
		b.logger.Error("fetch channel messages", zap.Error(err))
		b.recordUsage("clear", m.Author.ID, m.GuildID, start, err)
		return
	}

	ids := make([]string, 0, len(history)+1)
	ids = append(ids, m.ID)
	for _, msg := range history {
		ids = append(ids, msg.ID)
	}

	for _, chunk := range chunkIDs(ids, bulkDeleteChunk) {
		if err := s.ChannelMessagesBulkDelete(m.ChannelID, chunk); err != nil {
			b.logger.Error("bulk delete messages", zap.Error(err))
			b.recordUsage("clear", m.Author.ID, m.GuildID, start, err)
			return
		}
	}

	confirmation, err := s.ChannelMessageSend(m.ChannelID,
		fmt.Sprintf("🧹 **%d** messages cleared by %s.", amount, m.Author.Mention()))
	if err != nil {
		b.logger.Warn("send clear confirmation", zap.Error(err))
	} else {
		time.AfterFunc(confirmationTTL, func() {
			if err := s.ChannelMessageDelete(m.ChannelID, confirmation.ID); err != nil {
				b.logger.Warn("delete clear confirmation", zap.Error(err))
			}
		})
	}

	b.recordUsage("clear", m.Author.ID, m.GuildID, start, nil)
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if _, err := s.ChannelMessageSend(m.ChannelID, content); err != nil {
		b.logger.Warn("send reply", zap.Error(err))
	}
}
