package filesystem

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultIgnoreDirs are common directories to skip during traversal
var DefaultIgnoreDirs = []string{
	"node_modules", ".git", ".svn", ".hg",
	"dist", "build", "coverage", ".next", ".cache",
	".idea", ".vscode", ".vs",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs      []string // Directories to skip (default: DefaultIgnoreDirs)
	IgnorePatterns  []string // File name patterns to skip (e.g., "*.min.js")
	IncludeHidden   bool     // Include hidden files/dirs (default: false)
	ContinueOnError bool     // Skip unreadable entries instead of aborting
}

// Walk traverses a directory tree with configurable ignore patterns.
// The visitor function is called for each file and directory.
// Return filepath.SkipDir from visitor to skip a directory.
func Walk(rootPath string, opts WalkOptions, visitor func(path string, info os.FileInfo) error) error {
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}

	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if opts.ContinueOnError {
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}

		if !opts.IncludeHidden && strings.HasPrefix(info.Name(), ".") && path != rootPath {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			for _, ignore := range ignoreDirs {
				if info.Name() == ignore && path != rootPath {
					return filepath.SkipDir
				}
			}
		}

		if !info.IsDir() && len(opts.IgnorePatterns) > 0 {
			for _, pattern := range opts.IgnorePatterns {
				if matched, _ := filepath.Match(pattern, info.Name()); matched {
					return nil
				}
			}
		}

		return visitor(path, info)
	})
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
