package sgr

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const textColor = "#ffffff"

func TestParseLine(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		res := ParseLine("hello", textColor)

		require.Len(t, res.Segments, 1)
		assert.Equal(t, Segment{Text: "hello", Foreground: textColor}, res.Segments[0])
		assert.Equal(t, 5, res.VisibleLength)
	})

	t.Run("colored run followed by reset", func(t *testing.T) {
		res := ParseLine("\x1b[31mHello\x1b[0m World", textColor)

		require.Len(t, res.Segments, 2)
		assert.Equal(t, Segment{Text: "Hello", Foreground: "#cd3131"}, res.Segments[0])
		assert.Equal(t, Segment{Text: " World", Foreground: textColor, Column: 5}, res.Segments[1])
		assert.Equal(t, 11, res.VisibleLength)
	})

	t.Run("bold on and off", func(t *testing.T) {
		res := ParseLine("\x1b[1mbold\x1b[22mplain", textColor)

		require.Len(t, res.Segments, 2)
		assert.True(t, res.Segments[0].Bold)
		assert.False(t, res.Segments[1].Bold)
		assert.Equal(t, 4, res.Segments[1].Column)
	})

	t.Run("bright foreground and background", func(t *testing.T) {
		res := ParseLine("\x1b[92;104mok", textColor)

		require.Len(t, res.Segments, 1)
		assert.Equal(t, "#23d18b", res.Segments[0].Foreground)
		assert.Equal(t, "#3b8eea", res.Segments[0].Background)
	})

	t.Run("background from basic codes", func(t *testing.T) {
		res := ParseLine("\x1b[41mred bg", textColor)

		require.Len(t, res.Segments, 1)
		assert.Equal(t, "#cd3131", res.Segments[0].Background)
	})

	t.Run("empty body resets", func(t *testing.T) {
		res := ParseLine("\x1b[1;31mX\x1b[mY", textColor)

		require.Len(t, res.Segments, 2)
		assert.Equal(t, Segment{Text: "Y", Foreground: textColor, Column: 1}, res.Segments[1])
	})

	t.Run("empty parameter tokens are skipped", func(t *testing.T) {
		res := ParseLine("\x1b[1;31;mX", textColor)

		require.Len(t, res.Segments, 1)
		assert.Equal(t, "#cd3131", res.Segments[0].Foreground)
		assert.True(t, res.Segments[0].Bold)

		res = ParseLine("\x1b[;31mY", textColor)
		require.Len(t, res.Segments, 1)
		assert.Equal(t, "#cd3131", res.Segments[0].Foreground)
	})

	t.Run("reset restores initial state regardless of prior styling", func(t *testing.T) {
		res := ParseLine("\x1b[1;31;44mX\x1b[0mY", textColor)

		require.Len(t, res.Segments, 2)
		seg := res.Segments[1]
		assert.Equal(t, textColor, seg.Foreground)
		assert.Empty(t, seg.Background)
		assert.False(t, seg.Bold)
	})

	t.Run("unknown codes are ignored", func(t *testing.T) {
		res := ParseLine("\x1b[31m\x1b[4m\x1b[38mtext", textColor)

		require.Len(t, res.Segments, 1)
		assert.Equal(t, "#cd3131", res.Segments[0].Foreground)
		assert.False(t, res.Segments[0].Bold)
	})

	t.Run("unterminated escape consumes the remainder", func(t *testing.T) {
		res := ParseLine("ok\x1b[31;no end in sight", textColor)

		require.Len(t, res.Segments, 1)
		assert.Equal(t, "ok", res.Segments[0].Text)
		assert.Equal(t, 2, res.VisibleLength)
	})

	t.Run("multi-byte characters count as one column", func(t *testing.T) {
		res := ParseLine("héllo\x1b[31m→", textColor)

		require.Len(t, res.Segments, 2)
		assert.Equal(t, 5, res.Segments[1].Column)
		assert.Equal(t, 6, res.VisibleLength)
	})

	t.Run("empty line", func(t *testing.T) {
		res := ParseLine("", textColor)

		assert.Empty(t, res.Segments)
		assert.Zero(t, res.VisibleLength)
	})

	t.Run("style does not depend on the previous line", func(t *testing.T) {
		_ = ParseLine("\x1b[31mred with no reset", textColor)
		res := ParseLine("next line", textColor)

		require.Len(t, res.Segments, 1)
		assert.Equal(t, textColor, res.Segments[0].Foreground)
	})
}

func TestVisibleLength(t *testing.T) {
	lines := []string{
		"",
		"plain",
		"\x1b[31mHello\x1b[0m World",
		"\x1b[1;92;104mstacked\x1b[m",
		"héllo→",
		"tail\x1b[31munterminated",
	}
	for _, line := range lines {
		want := utf8.RuneCountInString(ansi.Strip(line))
		assert.Equal(t, want, VisibleLength(line), "line %q", line)

		res := ParseLine(line, textColor)
		assert.Equal(t, want, res.VisibleLength, "line %q", line)
	}
}

func TestExpandTabs(t *testing.T) {
	assert.Equal(t, "a    b", ExpandTabs("a\tb", 4))
	assert.Equal(t, "  x  ", ExpandTabs("\tx\t", 2))
	assert.Equal(t, "no tabs", ExpandTabs("no tabs", 8))
}

func TestWrapLines(t *testing.T) {
	t.Run("wrap law on plain text", func(t *testing.T) {
		line := strings.Repeat("x", 25)
		out := WrapLines([]string{line}, 10)

		require.Len(t, out, 3)
		assert.Equal(t, 10, VisibleLength(out[0]))
		assert.Equal(t, 10, VisibleLength(out[1]))
		assert.Equal(t, 5, VisibleLength(out[2]))
		assert.Equal(t, line, ansi.Strip(strings.Join(out, "")))
	})

	t.Run("wrap counts code points, not display cells", func(t *testing.T) {
		line := strings.Repeat("漢", 25)
		out := WrapLines([]string{line}, 10)

		require.Len(t, out, 3)
		assert.Equal(t, 10, VisibleLength(out[0]))
		assert.Equal(t, 10, VisibleLength(out[1]))
		assert.Equal(t, 5, VisibleLength(out[2]))
		assert.Equal(t, line, strings.Join(out, ""))
	})

	t.Run("short lines pass through", func(t *testing.T) {
		out := WrapLines([]string{"short", ""}, 10)
		assert.Equal(t, []string{"short", ""}, out)
	})

	t.Run("escape sequences survive the break", func(t *testing.T) {
		line := "\x1b[31m" + strings.Repeat("r", 12) + "\x1b[0m"
		out := WrapLines([]string{line}, 10)

		require.Len(t, out, 2)
		assert.Equal(t, 10, VisibleLength(out[0]))
		assert.Equal(t, 2, VisibleLength(out[1]))
	})

	t.Run("continuation rows keep the active style", func(t *testing.T) {
		line := "ab\x1b[31m" + strings.Repeat("r", 10)
		out := WrapLines([]string{line}, 10)

		require.Len(t, out, 2)
		res := ParseLine(out[1], textColor)
		require.Len(t, res.Segments, 1)
		assert.Equal(t, "rr", res.Segments[0].Text)
		assert.Equal(t, "#cd3131", res.Segments[0].Foreground)
	})
}
