package sgr

import (
	"strings"
	"unicode/utf8"
)

// ExpandTabs replaces every TAB with tabSize spaces. Tabs expand to a fixed
// run rather than to tab stops; cached line hashes are computed over the
// expanded text, so the expansion must stay deterministic.
func ExpandTabs(line string, tabSize int) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	return strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabSize))
}

// WrapLines hard-wraps every line whose visible length exceeds width,
// preserving escape sequences across the break. A line of N visible
// characters yields ceil(N/width) lines whose visible concatenation equals
// the original.
func WrapLines(lines []string, width int) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if VisibleLength(line) <= width {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine(line, width)...)
	}
	return out
}

// wrapLine splits one over-long line into rows of at most width code points.
// Escape sequences occupy no columns, and every sequence seen so far is
// replayed at the start of each continuation row, so parsing a row in
// isolation reproduces the style state at the break.
func wrapLine(line string, width int) []string {
	var rows []string
	var row, carry strings.Builder
	cols := 0

	for i := 0; i < len(line); {
		if line[i] == 0x1b && i+1 < len(line) && line[i+1] == '[' {
			start := i
			i += 2
			for i < len(line) && line[i] != 'm' {
				i++
			}
			if i < len(line) {
				i++
			}
			row.WriteString(line[start:i])
			carry.WriteString(line[start:i])
			continue
		}
		if cols == width {
			rows = append(rows, row.String())
			row.Reset()
			row.WriteString(carry.String())
			cols = 0
		}
		_, size := utf8.DecodeRuneInString(line[i:])
		row.WriteString(line[i : i+size])
		i += size
		cols++
	}
	return append(rows, row.String())
}
