package discover

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// Sources resolves glob patterns against fsys and returns the matching file
// paths, deduplicated and sorted. Operating on an fs.FS keeps discovery a
// pure function of its inputs, so tests can supply an in-memory tree.
func Sources(fsys fs.FS, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}

	sort.Strings(paths)

	log.Debug().Int("count", len(paths)).Strs("patterns", patterns).Msg("Discovered dispatch sources")
	return paths, nil
}
