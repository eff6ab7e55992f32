package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar"
)

// GlobOptions selects files under a root by slash-separated relative path.
type GlobOptions struct {
	Include []string // doublestar patterns, e.g. "server/**/*.{ts,js}"
	Walk    WalkOptions
}

// Glob walks rootPath and returns every file whose path relative to rootPath
// matches at least one include pattern. Results are joined onto rootPath,
// deduplicated and sorted.
func Glob(rootPath string, opts GlobOptions) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	err := Walk(rootPath, opts.Walk, func(path string, info os.FileInfo) error {
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(rootPath, path)
		if err != nil {
			return nil
		}

		if MatchAny(opts.Include, filepath.ToSlash(rel)) && !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", rootPath, err)
	}

	sort.Strings(files)
	return files, nil
}

// MatchAny reports whether the slash-separated path matches any pattern.
// Malformed patterns never match.
func MatchAny(patterns []string, slashPath string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, slashPath); err == nil && ok {
			return true
		}
	}
	return false
}
