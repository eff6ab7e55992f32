package depgraph

import (
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/syntax"
)

// MaxDepth bounds how far imports are followed from the starting file.
const MaxDepth = 3

// Kind is the coarse category of a dependency.
type Kind string

const (
	KindHook      Kind = "hook"
	KindAPI       Kind = "api"
	KindComponent Kind = "component"
	KindStyle     Kind = "style"
	KindUtil      Kind = "util"
	KindStore     Kind = "store"
	KindType      Kind = "type"
)

// ImportType says whether a dependency is imported by the starting file.
type ImportType string

const (
	ImportDirect     ImportType = "direct"
	ImportTransitive ImportType = "transitive"
)

// Node is one dependency reached from the starting file.
type Node struct {
	File       string     `json:"file"` // Relative to the frontend root, or the raw specifier when unresolved
	Kind       Kind       `json:"kind"`
	ImportType ImportType `json:"importType"`
	Resolved   bool       `json:"resolved"`
	Depth      int        `json:"depth"`
	From       string     `json:"from"` // Importing file, relative to the frontend root
}

// Resolver maps an import specifier in fromFile to a file on disk, or "".
type Resolver interface {
	ResolveComponentPath(importPath, componentName, fromFile string) string
}

// Loader parses a source file.
type Loader interface {
	Load(path string) (*syntax.File, error)
}

// Walker follows import declarations outward from a file.
type Walker struct {
	root     string
	loader   Loader
	resolver Resolver
	logger   logger.Logger
	maxDepth int
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger used for walk diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(w *Walker) {
		if log != nil {
			w.logger = log
		}
	}
}

// WithMaxDepth overrides MaxDepth.
func WithMaxDepth(depth int) Option {
	return func(w *Walker) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

// NewWalker creates a Walker. root is the frontend root that reported file
// paths are made relative to.
func NewWalker(root string, loader Loader, resolver Resolver, opts ...Option) *Walker {
	w := &Walker{
		root:     filepath.Clean(root),
		loader:   loader,
		resolver: resolver,
		logger:   logger.NewSilentLogger(),
		maxDepth: MaxDepth,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// walk is the state of a single Walk call.
type walk struct {
	visited map[string]bool
	nodes   []Node
}

// Walk returns the dependencies of file in discovery order. With
// followImports false, or an empty file, it returns nothing.
//
// Each file is expanded at most once per call, so import cycles terminate.
func (w *Walker) Walk(file string, followImports bool) []Node {
	if file == "" || !followImports {
		return []Node{}
	}

	state := &walk{
		visited: make(map[string]bool),
		nodes:   make([]Node, 0),
	}
	w.visit(state, filepath.Clean(file), ImportDirect, 0)

	w.logger.Debug("Dependency walk completed",
		logger.F("file", w.rel(file)),
		logger.F("dependencies", len(state.nodes)))

	return state.nodes
}

func (w *Walker) visit(state *walk, file string, importType ImportType, depth int) {
	if depth >= w.maxDepth || state.visited[file] {
		return
	}
	state.visited[file] = true

	parsed, err := w.loader.Load(file)
	if err != nil {
		w.logger.Debug("Failed to analyze dependencies",
			logger.F("file", w.rel(file)),
			logger.F("error", err))
		return
	}

	from := w.rel(file)
	for _, imp := range parsed.Imports() {
		spec := imp.Value
		if spec == "" {
			continue
		}

		resolved := w.resolver.ResolveComponentPath(spec, "", file)
		if resolved == "" {
			state.nodes = append(state.nodes, Node{
				File:       spec,
				Kind:       ClassifyDependency(spec, spec),
				ImportType: importType,
				Depth:      depth,
				From:       from,
			})
			continue
		}

		childType := ImportTransitive
		if depth == 0 {
			childType = ImportDirect
		}
		rel := w.rel(resolved)
		state.nodes = append(state.nodes, Node{
			File:       rel,
			Kind:       ClassifyDependency(rel, spec),
			ImportType: childType,
			Resolved:   true,
			Depth:      depth,
			From:       from,
		})

		w.visit(state, resolved, ImportTransitive, depth+1)
	}
}

func (w *Walker) rel(path string) string {
	if rel, err := filepath.Rel(w.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// ClassifyDependency assigns a Kind from the lower-cased file path and import
// specifier. Rules are checked in priority order, so useApiHook.ts is api.
func ClassifyDependency(filePath, specifier string) Kind {
	p := strings.ToLower(filePath)
	s := strings.ToLower(specifier)

	switch {
	case containsAny(p, "api", "service") || containsAny(s, "api", "service"):
		return KindAPI
	case containsAny(p, "hook", "use") || containsAny(s, "hook", "use"):
		return KindHook
	case containsAny(p, "store", "state", "context", "redux"):
		return KindStore
	case containsAny(p, ".css", ".scss", ".less", "style"):
		return KindStyle
	case containsAny(p, "type", ".d.ts") || strings.Contains(s, "type"):
		return KindType
	case containsAny(p, "component", "ui", "widget") || strings.HasSuffix(p, ".tsx"):
		return KindComponent
	default:
		return KindUtil
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
