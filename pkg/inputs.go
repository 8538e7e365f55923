package damsa

import (
	"fmt"
	"path/filepath"

	"golang.org/x/exp/slices"
)

// ExpandInputs globs every pattern in order and keeps at most limit files
// when limit is positive. Matches of a single pattern are sorted. Patterns
// matching nothing are logged and skipped.
func ExpandInputs(patterns []string, limit int) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			logger.Warn(fmt.Sprintf("input %s matches no files", pattern), "inputs")
			continue
		}
		slices.Sort(matches)
		files = append(files, matches...)
	}
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}

type TreeCheck struct {
	Path    string
	Entries int64
	Err     error
}

func (c TreeCheck) Valid() bool {
	return c.Err == nil && c.Entries > 0
}

// ScanTrees reports the entry count of the tree in every file.
func ScanTrees(paths []string, tree string) []TreeCheck {
	checks := make([]TreeCheck, 0, len(paths))
	for _, path := range paths {
		entries, err := InspectROOTFile(path, tree)
		checks = append(checks, TreeCheck{Path: path, Entries: entries, Err: err})
	}
	return checks
}
