package syntax

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/simonhull/firebird-suite/heron/pkg/logger"
)

const (
	// DefaultCacheSize bounds how many parsed files a Project retains.
	DefaultCacheSize = 256

	// DefaultMaxFileSize is the largest file a Project will parse.
	DefaultMaxFileSize = 4 * 1024 * 1024
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported source language")
	ErrFileTooLarge        = errors.New("file too large")
	ErrInvalidContent      = errors.New("invalid content")
)

// Language identifies the grammar used for a file.
type Language string

const (
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
	LanguageJavaScript Language = "javascript"
)

// LanguageFor picks the grammar for a file by extension.
func LanguageFor(path string) (Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript, true
	case ".tsx":
		return LanguageTSX, true
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript, true
	default:
		return "", false
	}
}

func (l Language) grammar() *sitter.Language {
	switch l {
	case LanguageTSX:
		return tsx.GetLanguage()
	case LanguageJavaScript:
		return javascript.GetLanguage()
	default:
		return typescript.GetLanguage()
	}
}

// File is one parsed source file.
type File struct {
	Path      string
	Language  Language
	Root      *Node
	HasErrors bool
}

// Imports returns the import declarations of the file in source order.
func (f *File) Imports() []*Node {
	if f == nil || f.Root == nil {
		return nil
	}
	return f.Root.Descendants(KindImport)
}

type cacheKey struct {
	path    string
	size    int64
	modUnix int64
}

// Project is the parse context for one trace or audit invocation.
// Files loaded from disk are cached by path, size and modification time.
type Project struct {
	log         logger.Logger
	cache       *lru.Cache[cacheKey, *File]
	cacheSize   int
	maxFileSize int64
}

// Option configures a Project.
type Option func(*Project)

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(p *Project) {
		if log != nil {
			p.log = log
		}
	}
}

// WithCacheSize sets how many parsed files are retained.
func WithCacheSize(n int) Option {
	return func(p *Project) {
		if n > 0 {
			p.cacheSize = n
		}
	}
}

// WithMaxFileSize sets the largest file, in bytes, that will be parsed.
func WithMaxFileSize(limit int64) Option {
	return func(p *Project) {
		if limit > 0 {
			p.maxFileSize = limit
		}
	}
}

// NewProject creates an empty parse context.
func NewProject(opts ...Option) *Project {
	p := &Project{
		log:         logger.NewSilentLogger(),
		cacheSize:   DefaultCacheSize,
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	// lru.New only fails for non-positive sizes, which the options rule out.
	p.cache, _ = lru.New[cacheKey, *File](p.cacheSize)
	return p
}

// Load reads and parses the file at path.
func (p *Project) Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	key := cacheKey{path: path, size: info.Size(), modUnix: info.ModTime().UnixNano()}
	if f, ok := p.cache.Get(key); ok {
		return f, nil
	}

	if info.Size() > p.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, info.Size(), p.maxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := p.ParseSource(path, content)
	if err != nil {
		return nil, err
	}

	p.cache.Add(key, f)
	return f, nil
}

// ParseSource parses content as if it were the file at path.
// Syntax errors do not fail the parse; the partial tree is returned with
// HasErrors set.
func (p *Project) ParseSource(path string, content []byte) (*File, error) {
	lang, ok := LanguageFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}
	if int64(len(content)) > p.maxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, len(content), p.maxFileSize)
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrInvalidContent, path)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang.grammar())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parsing %s: empty syntax tree", path)
	}

	c := &converter{src: bytes.Clone(content)}
	f := &File{
		Path:      path,
		Language:  lang,
		Root:      c.convert(root, nil),
		HasErrors: root.HasError(),
	}

	if f.HasErrors {
		p.log.Debug("Source contains syntax errors", logger.F("file", path))
	}

	return f, nil
}
