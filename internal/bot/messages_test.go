package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain words", "poll red blue", []string{"poll", "red", "blue"}},
		{"quoted question", `poll "favorite color?" red blue`, []string{"poll", "favorite color?", "red", "blue"}},
		{"quotes mid-line", `poll q "option one" "option two"`, []string{"poll", "q", "option one", "option two"}},
		{"empty quotes", `poll "" red`, []string{"poll", "", "red"}},
		{"extra whitespace", "  clear   10 ", []string{"clear", "10"}},
		{"unclosed quote keeps rest together", `poll "a b c`, []string{"poll", "a b c"}},
		{"empty input", "", nil},
		{"only whitespace", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitArgs(tt.input))
		})
	}
}

func TestPollOptionEmoji(t *testing.T) {
	assert.Equal(t, "🇦", pollOptionEmoji(0))
	assert.Equal(t, "🇧", pollOptionEmoji(1))
	assert.Equal(t, "🇯", pollOptionEmoji(9))
}

func TestBuildPollEmbed(t *testing.T) {
	embed, emojis := buildPollEmbed("favorite color?", []string{"red", "blue"})

	require.NotNil(t, embed)
	assert.Equal(t, "📊 NEW POLL: favorite color?", embed.Title)
	assert.Equal(t, "🇦 **red**\n🇧 **blue**\n", embed.Description)
	assert.Equal(t, embedColor, embed.Color)
	assert.Equal(t, []string{"🇦", "🇧"}, emojis)
}

func TestBuildPollEmbedNoOptions(t *testing.T) {
	embed, emojis := buildPollEmbed("just asking", nil)

	require.NotNil(t, embed)
	assert.Empty(t, embed.Description)
	assert.Empty(t, emojis)
}

func TestChunkIDs(t *testing.T) {
	ids := make([]string, 0, 101)
	for i := 0; i < 101; i++ {
		ids = append(ids, "id")
	}

	chunks := chunkIDs(ids, 100)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 100)
	assert.Len(t, chunks[1], 1)

	assert.Nil(t, chunkIDs(nil, 100))
	assert.Len(t, chunkIDs(ids[:100], 100), 1)
}
