package source

import (
	"path/filepath"
	"regexp"

	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/syntax"
)

// Parser extracts route and menu declarations from a frontend source tree.
type Parser struct {
	root    string
	project *syntax.Project
	logger  logger.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.logger = log
		}
	}
}

// WithProject shares an existing parse context instead of creating one.
func WithProject(project *syntax.Project) Option {
	return func(p *Parser) {
		if project != nil {
			p.project = project
		}
	}
}

// NewParser creates a Parser for the frontend rooted at feRoot.
func NewParser(feRoot string, opts ...Option) *Parser {
	p := &Parser{
		root:   filepath.Clean(feRoot),
		logger: logger.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.project == nil {
		p.project = syntax.NewProject(syntax.WithLogger(p.logger))
	}
	return p
}

// Root returns the frontend root the parser resolves against.
func (p *Parser) Root() string {
	return p.root
}

// Project returns the parse context shared by this parser.
func (p *Parser) Project() *syntax.Project {
	return p.project
}

func (p *Parser) rel(path string) string {
	if rel, err := filepath.Rel(p.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

var paramPattern = regexp.MustCompile(`:(\w+)`)

// ExtractParamNames returns the :param names of a route pattern in order.
// A regex constraint after the name is not part of it, so
// "/church/:churchId(\d+)" yields "churchId".
func ExtractParamNames(pattern string) []string {
	params := make([]string, 0)
	for _, m := range paramPattern.FindAllStringSubmatch(pattern, -1) {
		params = append(params, m[1])
	}
	return params
}
