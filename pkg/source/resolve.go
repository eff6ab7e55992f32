package source

import (
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/heron/internal/filesystem"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
)

// resolveExtensions are tried, in order, after the exact path.
var resolveExtensions = []string{".tsx", ".ts", ".jsx", ".js"}

// ResolveComponentPath maps an import specifier to a file on disk.
//
// Relative specifiers resolve against the directory of fromFile (or the
// frontend root when fromFile is empty). "@/" and "~/" resolve against src/.
// Other specifiers starting with "." or "/" resolve against the frontend
// root. Bare package names are external and resolve to "".
//
// An empty result is not an error: the specifier simply has no file here.
func (p *Parser) ResolveComponentPath(importPath, componentName, fromFile string) string {
	var base string

	switch {
	case strings.HasPrefix(importPath, "./") || strings.HasPrefix(importPath, "../"):
		dir := p.root
		if fromFile != "" {
			dir = filepath.Dir(fromFile)
		}
		base = filepath.Join(dir, filepath.FromSlash(importPath))

	case strings.HasPrefix(importPath, "@/") || strings.HasPrefix(importPath, "~/"):
		base = filepath.Join(p.root, "src", filepath.FromSlash(importPath[2:]))

	case strings.HasPrefix(importPath, ".") || strings.HasPrefix(importPath, "/"):
		base = filepath.Join(p.root, filepath.FromSlash(importPath))

	default:
		return ""
	}

	if found := findActualFile(base); found != "" {
		return found
	}

	p.logger.Debug("Import did not resolve to a file",
		logger.F("import", importPath),
		logger.F("component", componentName))
	return ""
}

func findActualFile(base string) string {
	if filesystem.IsFile(base) {
		return base
	}
	for _, ext := range resolveExtensions {
		if candidate := base + ext; filesystem.IsFile(candidate) {
			return candidate
		}
	}
	for _, ext := range resolveExtensions {
		if candidate := filepath.Join(base, "index"+ext); filesystem.IsFile(candidate) {
			return candidate
		}
	}
	return ""
}
