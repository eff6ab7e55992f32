package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/heron/internal/filesystem"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/syntax"
)

var (
	frontendPatterns = []string{
		"front-end/src/**/*.{ts,tsx,js,jsx}",
		"front-end/src/**/*.json",
		"client/src/**/*.{ts,tsx,js,jsx}",
		"web/src/**/*.{ts,tsx,js,jsx}",
	}

	serverPatterns = []string{
		"server/**/*.{ts,js}",
		"backend/**/*.{ts,js}",
		"api/**/*.{ts,js}",
		"*.{ts,js}",
	}

	auditWalk = filesystem.WalkOptions{
		IgnoreDirs:      []string{"node_modules", "dist", "build", ".git", "coverage"},
		IgnorePatterns:  []string{"*.min.js", "*.map"},
		ContinueOnError: true,
	}
)

// Options selects what an audit covers. The zero value scans both frontend
// and server code.
type Options struct {
	ProjectRoot  string
	SkipFrontend bool
	SkipServer   bool
}

// Auditor scans a project for token-based browser authentication.
type Auditor struct {
	logger      logger.Logger
	maxFileSize int64
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(a *Auditor) {
		if log != nil {
			a.logger = log
		}
	}
}

// WithMaxFileSize sets the largest file, in bytes, given to the parser.
// Larger files still get the line-level checks.
func WithMaxFileSize(bytes int64) Option {
	return func(a *Auditor) {
		if bytes > 0 {
			a.maxFileSize = bytes
		}
	}
}

// New creates an Auditor.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		logger:      logger.NewSilentLogger(),
		maxFileSize: syntax.DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Audit discovers and scans the files selected by opts. Every call starts
// from an empty finding set.
func (a *Auditor) Audit(opts Options) (*Result, error) {
	root, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	if !filesystem.IsDir(root) {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}

	a.logger.Info("Starting JWT/Auth security audit", logger.F("root", root))

	files, err := a.discover(root, opts)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Discovered audit files", logger.F("count", len(files)))

	s := &scan{
		root:    root,
		project: syntax.NewProject(syntax.WithLogger(a.logger), syntax.WithMaxFileSize(a.maxFileSize)),
		logger:  a.logger,
		out:     newFindingSet(),
	}

	scanned := 0
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			a.logger.Debug("Failed to scan file", logger.F("file", path), logger.F("error", err))
			continue
		}
		s.scanFile(path, content)
		scanned++
	}

	findings := s.out.findings
	result := &Result{
		Summary:            summarize(findings, scanned),
		Findings:           findings,
		RecommendedActions: Recommendations(findings),
	}

	a.logger.Info("Auth audit completed",
		logger.F("findings", len(findings)),
		logger.F("risk_score", result.Summary.RiskScore),
	)
	return result, nil
}

func (a *Auditor) discover(root string, opts Options) ([]string, error) {
	var include []string
	if !opts.SkipFrontend {
		include = append(include, frontendPatterns...)
	}
	if !opts.SkipServer {
		include = append(include, serverPatterns...)
	}
	if len(include) == 0 {
		return nil, nil
	}

	files, err := filesystem.Glob(root, filesystem.GlobOptions{Include: include, Walk: auditWalk})
	if err != nil {
		return nil, fmt.Errorf("discovering audit files: %w", err)
	}
	return files, nil
}

// scan is the state of one audit run.
type scan struct {
	root    string
	project *syntax.Project
	logger  logger.Logger
	out     *findingSet
}

// scanFile reports findings for one file. Files that are neither client
// nor server code are skipped.
func (s *scan) scanFile(path string, content []byte) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	side, ok := classify(rel)
	if !ok {
		return
	}

	fs := &fileScan{rel: rel, side: side, out: s.out}

	if astExtensions[filepath.Ext(path)] {
		file, err := s.project.ParseSource(path, content)
		if err != nil {
			s.logger.Debug("Syntax pass failed, using line checks only",
				logger.F("file", rel),
				logger.F("error", err),
			)
		} else {
			fs.astPass(file)
		}
	}

	fs.textPass(string(content))
}
