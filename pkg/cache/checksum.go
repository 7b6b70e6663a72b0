package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Sum returns the deterministic content checksum used for all cache keys,
// rendered as a decimal string. The original tool shelled out to cksum for
// this; hashing natively keeps behavior identical across platforms without
// spawning a process per line.
func Sum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 10)
}

// GlobalHash combines the ordered per-line hashes into the whole-input
// checksum recorded in the incremental session.
func GlobalHash(lineHashes []string) string {
	return Sum([]byte(strings.Join(lineHashes, "")))
}

// LineKey builds the cache key for a parsed-line record.
func LineKey(configHash, lineHash string) string {
	return configHash + "_" + lineHash
}

// FragmentKey builds the cache key for a rendered SVG fragment. The line
// index participates because a fragment's y coordinates depend on it.
func FragmentKey(configHash string, lineIndex int, lineHash string) string {
	return "svg_" + configHash + "_" + strconv.Itoa(lineIndex) + "_" + lineHash
}
