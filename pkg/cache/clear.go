package cache

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Clear removes every cache entry under the store root: parsed-line records,
// rendered fragments, and the incremental session record. The cache has no
// eviction policy or TTL; explicit clearing is the only bounding mechanism.
func (s *Store) Clear() error {
	if err := clearDir(s.svgDir, ".svg"); err != nil {
		return err
	}
	return clearDir(s.root, ".json")
}

func clearDir(dir, suffix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read cache directory %s", dir)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			return errors.Wrapf(err, "remove cache entry %s", path)
		}
	}
	return nil
}
