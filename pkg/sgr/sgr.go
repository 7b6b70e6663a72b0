// Package sgr segments lines of terminal output into styled text runs by
// interpreting ANSI SGR (Select Graphic Rendition) escape sequences.
package sgr

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Segment is one run of identically styled text within a line. Column is the
// zero-based visible-character offset of the run's first character, counted
// in code points and excluding escape bytes.
type Segment struct {
	Text       string
	Foreground string
	Background string
	Bold       bool
	Column     int
}

// LineResult holds the styled runs of a single line plus the total number of
// visible characters. It is produced either by ParseLine or by a cache load.
type LineResult struct {
	Segments      []Segment
	VisibleLength int
}

// ParseLine scans one line of text and splits it into styled segments.
// Style state starts at (textColor, no background, not bold) on every line;
// it never carries over from the previous line. Malformed escape sequences
// are not errors: unrecognized codes are ignored and an escape with no
// terminating 'm' consumes the remainder of the line.
func ParseLine(line string, textColor string) LineResult {
	var res LineResult

	fg := textColor
	bg := ""
	bold := false
	column := 0

	var pending strings.Builder

	flush := func() {
		if pending.Len() == 0 {
			return
		}
		text := pending.String()
		res.Segments = append(res.Segments, Segment{
			Text:       text,
			Foreground: fg,
			Background: bg,
			Bold:       bold,
			Column:     column,
		})
		column += utf8.RuneCountInString(text)
		pending.Reset()
	}

	for i := 0; i < len(line); {
		if line[i] == 0x1b && i+1 < len(line) && line[i+1] == '[' {
			flush()
			i += 2
			start := i
			for i < len(line) && line[i] != 'm' {
				i++
			}
			body := line[start:i]
			if i < len(line) {
				i++ // consume 'm'
			}
			fg, bg, bold = applyCodes(body, fg, bg, bold, textColor)
			continue
		}
		pending.WriteByte(line[i])
		i++
	}
	flush()

	res.VisibleLength = column
	return res
}

// applyCodes folds the semicolon-separated codes of one escape body into the
// current style and returns the updated state.
func applyCodes(body string, fg, bg string, bold bool, textColor string) (string, string, bool) {
	reset := func() {
		fg = textColor
		bg = ""
		bold = false
	}

	if body == "" {
		// ESC[m is shorthand for a full reset.
		reset()
		return fg, bg, bold
	}

	for _, token := range strings.Split(body, ";") {
		// An empty token, as in "1;31;", separates nothing and is skipped;
		// only a wholly empty body means reset.
		if token == "" {
			continue
		}
		code, ok := styleCode(token)
		if !ok {
			continue
		}
		switch {
		case code == 0:
			reset()
		case code == 1:
			bold = true
		case code == 22:
			bold = false
		case (code >= 30 && code <= 37) || (code >= 90 && code <= 97):
			if c, ok := Color(code); ok {
				fg = c
			}
		case (code >= 40 && code <= 47) || (code >= 100 && code <= 107):
			if c, ok := Color(code - 10); ok {
				bg = c
			}
		}
		// Anything else (cursor moves, 256-color selectors, ...) is ignored.
	}
	return fg, bg, bold
}

// styleCode strips non-digit characters from a token and parses the rest as
// a numeric style code. A token with no digits degrades to 0 (reset), which
// mirrors how terminals shrug off garbage parameters.
func styleCode(token string) (int, bool) {
	var digits strings.Builder
	for i := 0; i < len(token); i++ {
		if token[i] >= '0' && token[i] <= '9' {
			digits.WriteByte(token[i])
		}
	}
	if digits.Len() == 0 {
		return 0, true
	}
	code, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, false
	}
	return code, true
}

// VisibleLength counts the code points of line that a terminal would render,
// skipping escape sequences entirely.
func VisibleLength(line string) int {
	n := 0
	for i := 0; i < len(line); {
		if line[i] == 0x1b && i+1 < len(line) && line[i+1] == '[' {
			i += 2
			for i < len(line) && line[i] != 'm' {
				i++
			}
			if i < len(line) {
				i++
			}
			continue
		}
		_, size := utf8.DecodeRuneInString(line[i:])
		i += size
		n++
	}
	return n
}
