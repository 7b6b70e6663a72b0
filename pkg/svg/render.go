// Package svg renders styled line segments into SVG fragments and assembles
// the final document around them. Every coordinate is formatted from the
// fixed-point grid geometry, so the textual output is deterministic.
package svg

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/oh-sh/oh/pkg/grid"
	"github.com/oh-sh/oh/pkg/sgr"
)

// RenderFragment renders one line's segments as SVG text elements, with a
// background rectangle preceding any segment carrying a background color.
// The fragment is cacheable independently of its neighbors: it depends only
// on the segments, the line index, and the geometry.
func RenderFragment(segments []sgr.Segment, lineIndex int, geo grid.Geometry) string {
	var b strings.Builder

	y := geo.LineY(lineIndex)
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		runes := utf8.RuneCountInString(seg.Text)
		x := geo.SegmentX(seg.Column)
		width := geo.SegmentWidth(runes)

		if seg.Background != "" {
			fmt.Fprintf(&b, "  <rect x=%q y=%q width=%q height=%q fill=%q/>\n",
				grid.FormatScaled(x),
				grid.FormatScaled(geo.CellTop(lineIndex)),
				grid.FormatScaled(width),
				grid.FormatScaled(geo.FontHeight),
				seg.Background)
		}

		weight := ""
		if seg.Bold {
			weight = ` font-weight="bold"`
		}
		fmt.Fprintf(&b, "  <text x=%q y=%q font-size=\"%d\" class=\"terminal-text\" xml:space=\"preserve\" textLength=%q lengthAdjust=\"spacingAndGlyphs\" fill=%q%s>%s</text>\n",
			grid.FormatScaled(x),
			grid.FormatScaled(y),
			geo.FontSize,
			grid.FormatScaled(width),
			seg.Foreground,
			weight,
			EscapeText(seg.Text))
	}

	return b.String()
}

// FontCSS builds the style-block CSS for the terminal text class, importing
// the face from Google Fonts when the family is one we know is hosted there.
func FontCSS(family string, weight int) string {
	stack := fmt.Sprintf("font-family: '%s', 'Consolas', 'Monaco', 'Courier New', monospace; font-weight: %d;", family, weight)
	if url, ok := FontURL(family); ok {
		return fmt.Sprintf("@import url('%s'); .terminal-text { %s }", EscapeURL(url), stack)
	}
	return fmt.Sprintf(".terminal-text { %s }", stack)
}

// Document wraps the concatenated line fragments in the SVG header and
// footer: XML declaration, root element sized from the geometry, the style
// block, and a rounded background rectangle.
func Document(geo grid.Geometry, family string, weight int, background string, fragments []string) string {
	var b strings.Builder

	w := grid.FormatScaled(geo.DocWidth)
	h := grid.FormatScaled(geo.DocHeight)

	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=%q height=%q viewBox=\"0 0 %s %s\">\n", w, h, w, h)
	fmt.Fprintf(&b, "  <defs><style>%s</style></defs>\n", FontCSS(family, weight))
	fmt.Fprintf(&b, "  <rect width=\"100%%\" height=\"100%%\" fill=%q rx=\"6\"/>\n", background)
	for _, frag := range fragments {
		b.WriteString(frag)
	}
	b.WriteString("</svg>\n")

	return b.String()
}
