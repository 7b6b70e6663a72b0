package oh

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/oh-sh/oh/pkg/cache"
	"github.com/oh-sh/oh/pkg/grid"
	"github.com/oh-sh/oh/pkg/sgr"
	"github.com/oh-sh/oh/pkg/svg"
)

// maxLineBytes bounds a single input line. Terminal output past this is
// almost certainly not something anyone wants rendered as an image.
const maxLineBytes = 1024 * 1024

// Run drives the whole pipeline for one invocation: read and preprocess the
// input, parse-or-load each line, lay the grid out, render-or-load each
// fragment, and assemble the document. The returned string is the complete
// SVG document. The only fatal conditions are unreadable input and empty
// input; every cache failure falls back to the uncached path.
func Run(cfg Config, in io.Reader, store *cache.Store, log *slog.Logger) (string, error) {
	log.Info("reading source input")

	lines, err := readLines(in, cfg.TabSize)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("no input provided")
	}
	log.Info("read input", "lines", len(lines))

	if cfg.Wrap {
		lines = sgr.WrapLines(lines, cfg.Width)
		log.Debug("wrapped input", "width", cfg.Width, "lines", len(lines))
	}
	if cfg.Height > 0 && len(lines) > cfg.Height {
		lines = lines[:cfg.Height]
	}
	if cfg.Height == 0 {
		cfg.Height = len(lines)
	}
	cfg.resolveFontMetrics()

	// Line hashes are computed after tab expansion and wrapping/truncation,
	// over exactly the text each grid row will render.
	hashes := make([]string, len(lines))
	for i, line := range lines {
		hashes[i] = cache.Sum([]byte(line))
	}
	configHash := cfg.Hash()
	globalHash := cache.GlobalHash(hashes)

	reportIncremental(store, log, globalHash, hashes)

	log.Info("processing lines", "count", len(lines))

	// Parse or load every line, tracking the longest for auto-width.
	results := make([]sgr.LineResult, len(lines))
	visible := make([]int, len(lines))
	maxLine := 0
	for i, line := range lines {
		key := cache.LineKey(configHash, hashes[i])
		res, ok := store.LoadLine(key)
		if !ok {
			res = sgr.ParseLine(line, cfg.TextColor)
			store.SaveLine(key, res)
		}
		results[i] = res
		visible[i] = res.VisibleLength
		if res.VisibleLength > visible[maxLine] {
			maxLine = i
		}
	}
	log.Info("content analysis", "longest_line", visible[maxLine], "at_line", maxLine+1)

	geo := grid.Layout(grid.Params{
		Width:        cfg.Width,
		DefaultWidth: cfg.Width == DefaultWidth,
		Height:       cfg.Height,
		FontSize:     cfg.FontSize,
		FontWidth:    cfg.FontWidth,
		FontHeight:   cfg.FontHeight,
		Padding:      int64(cfg.Padding),
		AutoWidthCap: cfg.AutoWidthCap,
	}, visible)
	if geo.Width != cfg.Width {
		log.Info("auto-detected grid width", "width", geo.Width, "longest_line", visible[maxLine], "cap", cfg.AutoWidthCap)
	}
	log.Info("document dimensions",
		"width", grid.FormatScaled(geo.DocWidth),
		"height", grid.FormatScaled(geo.DocHeight),
		"grid", fmt.Sprintf("%dx%d", geo.Width, geo.Height))
	log.Info("font metrics",
		"family", cfg.FontFamily,
		"size", cfg.FontSize,
		"char_width", grid.FormatScaled(cfg.FontWidth),
		"line_height", grid.FormatScaled(cfg.FontHeight),
		"weight", cfg.FontWeight)

	log.Info("generating fragments")

	count := len(lines)
	if count > geo.Height {
		count = geo.Height
	}
	fragments := make([]string, 0, count)
	for i := 0; i < count; i++ {
		key := cache.FragmentKey(configHash, i, hashes[i])
		frag, ok := store.LoadFragment(key)
		if !ok {
			frag = svg.RenderFragment(grid.Clip(results[i].Segments, geo.Width), i, geo)
			store.SaveFragment(key, frag)
		}
		fragments = append(fragments, frag)
	}

	doc := svg.Document(geo, cfg.FontFamily, cfg.FontWeight, cfg.Background, fragments)

	stats := store.Stats()
	store.SaveSession(&cache.Session{
		GlobalInputHash: globalHash,
		ConfigHash:      configHash,
		LineCount:       len(lines),
		LineHashes:      hashes,
		CacheStats: cache.SessionStats{
			SegmentHits:   stats.LineHits,
			SegmentMisses: stats.LineMisses,
			SVGHits:       stats.FragmentHits,
			SVGMisses:     stats.FragmentMisses,
		},
	})

	log.Info("cache statistics",
		"line_hits", stats.LineHits,
		"line_lookups", stats.LineHits+stats.LineMisses,
		"fragment_hits", stats.FragmentHits,
		"fragment_lookups", stats.FragmentHits+stats.FragmentMisses)

	return doc, nil
}

// reportIncremental compares the current whole-input hash against the
// previous run's session record. This is observability only: it never gates
// per-line work, which is skipped through cache hits regardless.
func reportIncremental(store *cache.Store, log *slog.Logger, globalHash string, hashes []string) {
	prev, ok := store.LoadSession()
	if !ok {
		log.Info("no previous session, processing all lines")
		return
	}
	if prev.GlobalInputHash == globalHash {
		log.Info("input unchanged since previous run")
		return
	}

	changed := 0
	firstChanged := -1
	for i, h := range hashes {
		if i >= len(prev.LineHashes) || prev.LineHashes[i] != h {
			changed++
			if firstChanged < 0 {
				firstChanged = i
			}
		}
	}
	if len(prev.LineHashes) > len(hashes) {
		changed += len(prev.LineHashes) - len(hashes)
	}
	log.Info("input changed since previous run",
		"changed_lines", changed,
		"first_changed", firstChanged+1,
		"previous_count", prev.LineCount,
		"current_count", len(hashes))
}

// readLines reads the input line by line, stripping the trailing newline and
// expanding tabs as it goes.
func readLines(in io.Reader, tabSize int) ([]string, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, sgr.ExpandTabs(scanner.Text(), tabSize))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
