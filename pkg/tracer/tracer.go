package tracer

import (
	"path/filepath"
	"time"

	"github.com/simonhull/firebird-suite/heron"
	"github.com/simonhull/firebird-suite/heron/pkg/depgraph"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/source"
	"github.com/simonhull/firebird-suite/heron/pkg/syntax"
)

// TraceOptions controls a single trace.
type TraceOptions struct {
	RouterPath    string // Explicit router file; probed when empty
	MenuGlob      string // Doublestar pattern for menu files; conventional dirs when empty
	FollowImports bool   // Walk the resolved component's imports
}

// Metadata describes how a trace was produced.
type Metadata struct {
	Timestamp        time.Time `json:"timestamp"`
	Version          string    `json:"version"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
}

// TraceArtifacts is everything known about one traced URL.
type TraceArtifacts struct {
	QueriedURL    string              `json:"queriedUrl"`
	RouteMatch    *RouteMatch         `json:"routeMatch,omitempty"`
	Router        *RouterRef          `json:"router,omitempty"`
	Menus         []source.MenuRecord `json:"menus"`
	Truth         Status              `json:"truth"`
	Conflicts     []string            `json:"conflicts,omitempty"`
	DynamicParams map[string]string   `json:"dynamicParams"`
	Dependencies  []depgraph.Node     `json:"dependencies"`
	Warnings      []string            `json:"warnings"`
	Metadata      Metadata            `json:"metadata"`
}

// Tracer answers what a URL renders in a frontend source tree.
type Tracer struct {
	root      string
	logger    logger.Logger
	maxDepth  int
	cacheSize int
	now       func() time.Time
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithLogger sets the logger used for trace diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(t *Tracer) {
		if log != nil {
			t.logger = log
		}
	}
}

// WithMaxDepth overrides how far imports are followed.
func WithMaxDepth(depth int) Option {
	return func(t *Tracer) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

// WithCacheSize sets how many parsed files one trace keeps in memory.
func WithCacheSize(n int) Option {
	return func(t *Tracer) {
		if n > 0 {
			t.cacheSize = n
		}
	}
}

// New creates a Tracer for the frontend rooted at feRoot.
func New(feRoot string, opts ...Option) *Tracer {
	t := &Tracer{
		root:      filepath.Clean(feRoot),
		logger:    logger.NewSilentLogger(),
		maxDepth:  depgraph.MaxDepth,
		cacheSize: syntax.DefaultCacheSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// session holds the parse context owned by one TraceURL or BuildRouteMap call.
type session struct {
	parser *source.Parser
	walker *depgraph.Walker
}

func (t *Tracer) newSession() *session {
	project := syntax.NewProject(
		syntax.WithLogger(t.logger),
		syntax.WithCacheSize(t.cacheSize),
	)
	parser := source.NewParser(t.root,
		source.WithProject(project),
		source.WithLogger(t.logger),
	)
	walker := depgraph.NewWalker(t.root, project, parser,
		depgraph.WithLogger(t.logger),
		depgraph.WithMaxDepth(t.maxDepth),
	)
	return &session{parser: parser, walker: walker}
}

// TraceURL matches url against the router, cross-references the menus and
// optionally walks the matched component's imports. The only error is a
// router that cannot be found or parsed; everything else degrades into
// warnings and a not_found or router_only truth.
func (t *Tracer) TraceURL(url string, opts TraceOptions) (*TraceArtifacts, error) {
	start := t.now()
	log := t.logger.WithFields(logger.F("url", url))
	log.Info("Starting URL trace")

	s := t.newSession()

	routes, err := s.parser.ParseRouter(opts.RouterPath)
	if err != nil {
		log.Error("URL trace failed", logger.F("error", err))
		return nil, err
	}

	warnings := []string{}
	menus, err := s.parser.ParseMenus(opts.MenuGlob)
	if err != nil {
		log.Warn("Menu scan failed", logger.F("error", err))
		warnings = append(warnings, "Menu scan failed: "+err.Error())
		menus = &source.ParsedMenus{}
	}

	path := NormalizeURL(url)
	match := FindRouteMatch(path, routes.Routes)
	if match != nil {
		log.Debug("Route matching",
			logger.F("routes", len(routes.Routes)),
			logger.F("best", match.Pattern),
			logger.F("specificity", match.Specificity))
	}

	truth := DetermineTruth(path, match, menus.Menus)

	dependencies := []depgraph.Node{}
	if truth.Router != nil && truth.Router.FilePath != "" {
		dependencies = s.walker.Walk(truth.Router.FilePath, opts.FollowImports)
	}

	params := map[string]string{}
	if match != nil {
		params = ExtractDynamicParams(path, match.Route.URLPattern)
	}

	artifacts := &TraceArtifacts{
		QueriedURL:    url,
		RouteMatch:    match,
		Router:        truth.Router,
		Menus:         truth.Menus,
		Truth:         truth.Status,
		Conflicts:     truth.Conflicts,
		DynamicParams: params,
		Dependencies:  dependencies,
		Warnings:      append(warnings, truth.Warnings...),
		Metadata: Metadata{
			Timestamp:        start.UTC(),
			Version:          heron.Version,
			ProcessingTimeMs: t.now().Sub(start).Milliseconds(),
		},
	}

	log.Info("URL trace completed",
		logger.F("truth", artifacts.Truth),
		logger.F("dependencies", len(dependencies)),
		logger.F("ms", artifacts.Metadata.ProcessingTimeMs))

	return artifacts, nil
}
