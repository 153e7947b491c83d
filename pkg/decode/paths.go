package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ExportExt is the extension of chat exports picked up from directories.
const ExportExt = ".txt"

// ExpandPaths resolves file paths, glob patterns and directories into a
// sorted, deduplicated list of files. A directory contributes the *.txt
// files directly inside it. Literal paths that match nothing are kept so the
// caller reports a precise file-not-found error.
func ExpandPaths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			add(pattern)
			continue
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				add(match)
				continue
			}
			inDir, err := filepath.Glob(filepath.Join(match, "*"+ExportExt))
			if err != nil {
				return nil, fmt.Errorf("listing %s: %w", match, err)
			}
			for _, f := range inDir {
				add(f)
			}
		}
	}

	sort.Strings(result)
	return result, nil
}
