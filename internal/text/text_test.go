package text_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"newsbrief/internal/text"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "keeps punctuation", input: "Markets fell 3%, again.", want: "Markets fell 3%, again."},
		{name: "collapse whitespace", input: "foo\n\nbar\t baz", want: "foo bar baz"},
		{name: "strips urls", input: "Details at https://example.com/story today", want: "Details at today"},
		{name: "html entities", input: "Q&amp;A session", want: "Q&A session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, text.Clean(tt.input))
		})
	}
}

func TestIsBoilerplate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "empty", input: "", want: true},
		{name: "read more marker", input: "Big news today, read more on our site", want: true},
		{name: "chinese marker", input: "突发事件，点击查看全文", want: true},
		{name: "short ellipsis cut", input: "The committee decided that…", want: true},
		{name: "real teaser", input: "The central bank held rates steady for a third consecutive meeting on Wednesday.", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, text.IsBoilerplate(tt.input))
		})
	}
}

func TestUsable(t *testing.T) {
	require.False(t, text.Usable("", 20))
	require.False(t, text.Usable("too short", 20))
	require.False(t, text.Usable("Full coverage here, read more at our portal page", 20))
	require.True(t, text.Usable("Regulators approved the merger after a nine month antitrust review.", 20))
}

func TestTruncateRunes(t *testing.T) {
	require.Equal(t, "hello", text.TruncateRunes("hello", 10))
	require.Equal(t, "he…", text.TruncateRunes("hello", 2))
	require.Equal(t, "hello", text.TruncateRunes("hello", 0))
	// rune-safe on multibyte input
	require.Equal(t, "新闻…", text.TruncateRunes("新闻联播", 2))
}

func TestSynthesizeTeaser(t *testing.T) {
	require.Equal(t, "In focus: AI chips", text.SynthesizeTeaser("AI chips"))
}

func TestBuildItemID(t *testing.T) {
	id1 := text.BuildItemID("title", "source", "2024-02-03 04:05:06")
	id2 := text.BuildItemID("title", "source", "2024-02-03 04:05:06")
	require.NotEmpty(t, id1)
	require.Equal(t, id1, id2)
	require.NotEqual(t, id1, text.BuildItemID("title", "other", "2024-02-03 04:05:06"))
	require.Empty(t, text.BuildItemID("", "", "x"))
}
