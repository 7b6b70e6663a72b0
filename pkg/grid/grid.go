// Package grid maps visible character columns onto pixel coordinates using a
// fixed character grid. All arithmetic is done on integers scaled by Scale
// (two implied decimal digits) so that coordinates are identical across
// platforms, with no floating-point drift.
package grid

import (
	"fmt"
	"unicode/utf8"

	"github.com/oh-sh/oh/pkg/sgr"
)

// Scale is the fixed-point factor: a scaled value of 840 means 8.40 pixels.
const Scale = 100

// DefaultAutoWidthCap bounds auto-detected grid width. When the caller keeps
// the default grid width and the input holds longer lines, the grid grows to
// the longest line but never past this ceiling (overridable per run).
const DefaultAutoWidthCap = 100

// Params carries the configuration inputs the layout depends on. FontWidth
// and FontHeight are pixel sizes scaled by Scale; Padding is in whole pixels.
type Params struct {
	Width        int
	DefaultWidth bool // Width was left at its default, enabling auto-detection
	Height       int  // 0 derives the height from the line count
	FontSize     int
	FontWidth    int64
	FontHeight   int64
	Padding      int64
	AutoWidthCap int // 0 means DefaultAutoWidthCap
}

// Geometry is the resolved pixel layout of the document. All int64 fields
// are scaled by Scale.
type Geometry struct {
	Width      int // grid width in character cells
	Height     int // grid height in lines
	FontSize   int
	CellWidth  int64
	FontHeight int64
	DocWidth   int64
	DocHeight  int64
	padding    int64
}

// Layout resolves the grid dimensions and pixel geometry for the given
// per-line visible lengths.
func Layout(p Params, visibleLengths []int) Geometry {
	maxWidth := 0
	for _, n := range visibleLengths {
		if n > maxWidth {
			maxWidth = n
		}
	}

	ceiling := p.AutoWidthCap
	if ceiling <= 0 {
		ceiling = DefaultAutoWidthCap
	}

	width := p.Width
	if p.DefaultWidth && maxWidth > p.Width {
		width = maxWidth
		if width > ceiling {
			width = ceiling
		}
	}

	height := p.Height
	if height == 0 {
		height = len(visibleLengths)
	}

	pad := p.Padding * Scale
	docWidth := 2*pad + int64(width)*p.FontWidth
	docHeight := 2*pad + int64(height)*p.FontHeight

	return Geometry{
		Width:      width,
		Height:     height,
		FontSize:   p.FontSize,
		CellWidth:  (docWidth - 2*pad) / int64(width),
		FontHeight: p.FontHeight,
		DocWidth:   docWidth,
		DocHeight:  docHeight,
		padding:    pad,
	}
}

// SegmentX returns the scaled x coordinate of a segment starting at the
// given visible column.
func (g Geometry) SegmentX(column int) int64 {
	return g.padding + int64(column)*g.CellWidth
}

// SegmentWidth returns the scaled pixel width of text spanning the given
// number of code points.
func (g Geometry) SegmentWidth(runes int) int64 {
	return int64(runes) * g.CellWidth
}

// LineY returns the scaled text baseline y coordinate for a line index.
func (g Geometry) LineY(index int) int64 {
	return g.padding + int64(g.FontSize)*Scale + int64(index)*g.FontHeight
}

// CellTop returns the scaled y coordinate of the top edge of a line's cell
// row, used to position background rectangles.
func (g Geometry) CellTop(index int) int64 {
	return g.padding + int64(index)*g.FontHeight
}

// Clip drops segments at or beyond the grid width and truncates a segment
// straddling the boundary to the remaining columns.
func Clip(segments []sgr.Segment, width int) []sgr.Segment {
	out := make([]sgr.Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.Column >= width {
			continue
		}
		remaining := width - seg.Column
		if utf8.RuneCountInString(seg.Text) > remaining {
			runes := []rune(seg.Text)
			seg.Text = string(runes[:remaining])
		}
		out = append(out, seg)
	}
	return out
}

// FormatScaled renders a scaled value as a decimal pixel count with two
// fractional digits, e.g. 840 -> "8.40".
func FormatScaled(v int64) string {
	return fmt.Sprintf("%d.%02d", v/Scale, v%Scale)
}
