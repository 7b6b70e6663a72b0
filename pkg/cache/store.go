// Package cache is the persistent content-addressed store that lets repeat
// runs skip re-parsing and re-rendering unchanged lines. Every failure on
// the cache path degrades to a miss or a no-op: processing always has a
// correct non-cached fallback, so nothing here returns an error to the
// pipeline.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/oh-sh/oh/pkg/sgr"
)

// Stats counts cache hits and misses for one run. The counters are owned by
// the run and reported at the end; they are not persisted between runs
// except as part of the session record.
type Stats struct {
	LineHits       int
	LineMisses     int
	FragmentHits   int
	FragmentMisses int
}

// Store is a disk-backed key-value store with two independent namespaces:
// parsed-line records (<root>/<key>.json) and rendered SVG fragments
// (<root>/svg/<key>.svg). Lookups are fresh reads; there is no in-memory
// layer and no locking across processes.
type Store struct {
	root   string
	svgDir string
	stats  Stats
	log    *slog.Logger
}

// DefaultDir returns the per-user cache root.
func DefaultDir() string {
	return filepath.Join(xdg.CacheHome, "oh")
}

// Open creates the cache directories under root and returns the store.
func Open(root string, log *slog.Logger) (*Store, error) {
	svgDir := filepath.Join(root, "svg")
	if err := os.MkdirAll(svgDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Store{root: root, svgDir: svgDir, log: log}, nil
}

// Stats returns the hit/miss counters accumulated so far this run.
func (s *Store) Stats() Stats {
	return s.stats
}

// lineRecord is the on-disk shape of a parsed-line cache entry. Segments are
// pipe-joined strings (text|fg|bg|bold|column) for compatibility with
// records written by earlier versions of the tool.
type lineRecord struct {
	CacheKey      string   `json:"cache_key"`
	VisibleLength int      `json:"visible_length"`
	Segments      []string `json:"segments"`
	Timestamp     int64    `json:"timestamp"`
}

// LoadLine looks up a parsed-line record. A missing file, unreadable JSON,
// or malformed segment encoding all count as a miss.
func (s *Store) LoadLine(key string) (sgr.LineResult, bool) {
	path := filepath.Join(s.root, key+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		s.stats.LineMisses++
		s.log.Debug("line cache miss", "key", key)
		return sgr.LineResult{}, false
	}

	var rec lineRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.stats.LineMisses++
		s.log.Debug("line cache record corrupt, treating as miss", "key", key, "error", err)
		return sgr.LineResult{}, false
	}

	res := sgr.LineResult{VisibleLength: rec.VisibleLength}
	for _, enc := range rec.Segments {
		seg, err := decodeSegment(enc)
		if err != nil {
			s.stats.LineMisses++
			s.log.Debug("line cache segment corrupt, treating as miss", "key", key, "error", err)
			return sgr.LineResult{}, false
		}
		res.Segments = append(res.Segments, seg)
	}

	s.stats.LineHits++
	s.log.Debug("line cache hit", "key", key)
	return res, true
}

// SaveLine persists a parsed-line record. Failures are logged and swallowed;
// the entry simply stays uncached.
func (s *Store) SaveLine(key string, res sgr.LineResult) {
	rec := lineRecord{
		CacheKey:      key,
		VisibleLength: res.VisibleLength,
		Segments:      make([]string, 0, len(res.Segments)),
		Timestamp:     time.Now().Unix(),
	}
	for _, seg := range res.Segments {
		rec.Segments = append(rec.Segments, encodeSegment(seg))
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		s.log.Debug("line cache encode failed", "key", key, "error", err)
		return
	}
	if err := writeAtomic(filepath.Join(s.root, key+".json"), data); err != nil {
		s.log.Debug("line cache write failed", "key", key, "error", err)
	}
}

// LoadFragment looks up a rendered SVG fragment.
func (s *Store) LoadFragment(key string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.svgDir, key+".svg"))
	if err != nil {
		s.stats.FragmentMisses++
		s.log.Debug("fragment cache miss", "key", key)
		return "", false
	}
	s.stats.FragmentHits++
	s.log.Debug("fragment cache hit", "key", key)
	return string(data), true
}

// SaveFragment persists a rendered SVG fragment, best effort.
func (s *Store) SaveFragment(key, fragment string) {
	if err := writeAtomic(filepath.Join(s.svgDir, key+".svg"), []byte(fragment)); err != nil {
		s.log.Debug("fragment cache write failed", "key", key, "error", err)
	}
}

func encodeSegment(seg sgr.Segment) string {
	return fmt.Sprintf("%s|%s|%s|%t|%d", seg.Text, seg.Foreground, seg.Background, seg.Bold, seg.Column)
}

// decodeSegment parses text|fg|bg|bold|column. The text field may itself
// contain pipes, so the four style fields are split off from the right.
func decodeSegment(enc string) (sgr.Segment, error) {
	rest := enc
	fields := make([]string, 4)
	for i := 3; i >= 0; i-- {
		j := strings.LastIndexByte(rest, '|')
		if j < 0 {
			return sgr.Segment{}, fmt.Errorf("segment record has too few fields: %q", enc)
		}
		fields[i] = rest[j+1:]
		rest = rest[:j]
	}

	column, err := strconv.Atoi(fields[3])
	if err != nil || column < 0 {
		return sgr.Segment{}, fmt.Errorf("segment record has bad column %q", fields[3])
	}

	return sgr.Segment{
		Text:       rest,
		Foreground: fields[0],
		Background: fields[1],
		Bold:       fields[2] == "true",
		Column:     column,
	}, nil
}
