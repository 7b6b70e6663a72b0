package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const sessionFile = "incremental.json"

// Session is the whole-input record persisted once per run. The next run
// compares GlobalInputHash to detect whether the input changed at all; this
// is reported for observability only, per-line skipping happens through the
// line and fragment caches.
type Session struct {
	GlobalInputHash string       `json:"global_input_hash"`
	ConfigHash      string       `json:"config_hash"`
	LineCount       int          `json:"line_count"`
	LineHashes      []string     `json:"line_hashes"`
	Timestamp       int64        `json:"timestamp"`
	CacheStats      SessionStats `json:"cache_stats"`
}

// SessionStats mirrors Stats in the persisted session record, keeping the
// field names earlier versions of the tool wrote.
type SessionStats struct {
	SegmentHits   int `json:"segment_hits"`
	SegmentMisses int `json:"segment_misses"`
	SVGHits       int `json:"svg_hits"`
	SVGMisses     int `json:"svg_misses"`
}

// LoadSession reads the previous run's session record. Absence or a corrupt
// record both return ok=false; a first run and a damaged cache look the same.
func (s *Store) LoadSession() (*Session, bool) {
	data, err := os.ReadFile(filepath.Join(s.root, sessionFile))
	if err != nil {
		s.log.Debug("no incremental session record")
		return nil, false
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.log.Debug("incremental session record corrupt, ignoring", "error", err)
		return nil, false
	}
	return &sess, true
}

// SaveSession persists the current run's session record, best effort.
func (s *Store) SaveSession(sess *Session) {
	sess.Timestamp = time.Now().Unix()
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		s.log.Debug("session encode failed", "error", err)
		return
	}
	if err := writeAtomic(filepath.Join(s.root, sessionFile), data); err != nil {
		s.log.Debug("session write failed", "error", err)
	}
}
