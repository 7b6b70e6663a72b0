package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oh-sh/oh/pkg/sgr"
)

// defaultParams mirrors the tool defaults: 14px Consolas (ratio 0.60) on an
// 80-column grid with 20px padding.
func defaultParams() Params {
	return Params{
		Width:        80,
		DefaultWidth: true,
		FontSize:     14,
		FontWidth:    840,  // 8.40px
		FontHeight:   1680, // 16.80px
		Padding:      20,
	}
}

func TestLayout(t *testing.T) {
	t.Run("default grid", func(t *testing.T) {
		geo := Layout(defaultParams(), []int{5, 11, 2})

		assert.Equal(t, 80, geo.Width)
		assert.Equal(t, 3, geo.Height)
		assert.EqualValues(t, 71200, geo.DocWidth)  // 2*20*100 + 80*840
		assert.EqualValues(t, 9040, geo.DocHeight)  // 2*20*100 + 3*1680
		assert.EqualValues(t, 840, geo.CellWidth)   // 67200/80
	})

	t.Run("auto-detected width follows the longest line", func(t *testing.T) {
		geo := Layout(defaultParams(), []int{95, 40})
		assert.Equal(t, 95, geo.Width)
	})

	t.Run("auto-detected width is capped", func(t *testing.T) {
		geo := Layout(defaultParams(), []int{250})
		assert.Equal(t, DefaultAutoWidthCap, geo.Width)

		p := defaultParams()
		p.AutoWidthCap = 120
		geo = Layout(p, []int{250})
		assert.Equal(t, 120, geo.Width)
	})

	t.Run("explicit width is used verbatim", func(t *testing.T) {
		p := defaultParams()
		p.Width = 40
		p.DefaultWidth = false
		geo := Layout(p, []int{95})
		assert.Equal(t, 40, geo.Width)
	})

	t.Run("explicit height wins over line count", func(t *testing.T) {
		p := defaultParams()
		p.Height = 10
		geo := Layout(p, []int{1, 2, 3})
		assert.Equal(t, 10, geo.Height)
	})

	t.Run("segment coordinates", func(t *testing.T) {
		geo := Layout(defaultParams(), []int{11})

		assert.EqualValues(t, 2000, geo.SegmentX(0))
		assert.EqualValues(t, 2000+5*840, geo.SegmentX(5))
		assert.EqualValues(t, 6*840, geo.SegmentWidth(6))
		assert.EqualValues(t, 2000+1400, geo.LineY(0))        // padding + font size
		assert.EqualValues(t, 2000+1400+2*1680, geo.LineY(2)) // + 2 line heights
		assert.EqualValues(t, 2000+1680, geo.CellTop(1))
	})
}

func TestClip(t *testing.T) {
	segments := []sgr.Segment{
		{Text: "inside", Column: 0},
		{Text: "straddle", Column: 6},
		{Text: "outside", Column: 10},
	}

	out := Clip(segments, 10)

	require.Len(t, out, 2)
	assert.Equal(t, "inside", out[0].Text)
	assert.Equal(t, "stra", out[1].Text) // truncated to 10-6 columns
	for _, seg := range out {
		assert.Less(t, seg.Column, 10)
	}
}

func TestClipMultiByte(t *testing.T) {
	out := Clip([]sgr.Segment{{Text: "ééééé", Column: 8}}, 10)

	require.Len(t, out, 1)
	assert.Equal(t, "éé", out[0].Text)
}

func TestFormatScaled(t *testing.T) {
	assert.Equal(t, "8.40", FormatScaled(840))
	assert.Equal(t, "712.00", FormatScaled(71200))
	assert.Equal(t, "0.05", FormatScaled(5))
	assert.Equal(t, "0.00", FormatScaled(0))
}
