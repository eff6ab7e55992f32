package source

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/simonhull/firebird-suite/heron/internal/filesystem"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/syntax"
)

var (
	// menuSearchDirs are walked in order when no menu glob is given.
	menuSearchDirs = []string{"src/layouts", "src/config", "src"}

	menuFilePattern = regexp.MustCompile(`(?i)menu.*\.(ts|tsx)$`)
)

// ParseMenus extracts navigation entries from menu files. With an empty
// menuGlob the conventional directories are searched for *menu*.ts(x)
// files; otherwise every file under the frontend root whose relative path
// matches the doublestar pattern is scanned.
//
// A file that fails to parse is logged and skipped.
func (p *Parser) ParseMenus(menuGlob string) (*ParsedMenus, error) {
	files, err := p.findMenuFiles(menuGlob)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Found menu files", logger.F("count", len(files)))

	result := &ParsedMenus{Files: files}
	sections := make(map[string]bool)

	for _, path := range files {
		file, err := p.project.Load(path)
		if err != nil {
			p.logger.Warn("Failed to parse menu file",
				logger.F("file", p.rel(path)),
				logger.F("error", err))
			continue
		}

		menus := parseMenuFile(file, p.rel(path))
		for _, m := range menus {
			if m.Section != "" {
				sections[m.Section] = true
			}
		}
		result.Menus = append(result.Menus, menus...)

		p.logger.Debug("Parsed menu file",
			logger.F("file", p.rel(path)),
			logger.F("menus", len(menus)))
	}

	for s := range sections {
		result.Sections = append(result.Sections, s)
	}
	sort.Strings(result.Sections)

	p.logger.Info("Menu parsing completed",
		logger.F("menus", len(result.Menus)),
		logger.F("sections", len(result.Sections)))

	return result, nil
}

func (p *Parser) findMenuFiles(menuGlob string) ([]string, error) {
	if menuGlob != "" {
		return filesystem.Glob(p.root, filesystem.GlobOptions{
			Include: []string{menuGlob},
			Walk:    filesystem.WalkOptions{ContinueOnError: true},
		})
	}

	seen := make(map[string]bool)
	var files []string

	for _, dir := range menuSearchDirs {
		full := filepath.Join(p.root, filepath.FromSlash(dir))
		if !filesystem.IsDir(full) {
			continue
		}
		err := filesystem.Walk(full, filesystem.WalkOptions{
			IgnoreDirs:      []string{"node_modules"},
			ContinueOnError: true,
		}, func(path string, info os.FileInfo) error {
			if info.IsDir() || seen[path] || !menuFilePattern.MatchString(info.Name()) {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			p.logger.Warn("Failed to search menu directory", logger.F("dir", dir), logger.F("error", err))
		}
	}

	return files, nil
}

// parseMenuFile reads array elements first, then any remaining object
// literal. Each object is considered once.
func parseMenuFile(file *syntax.File, relPath string) []MenuRecord {
	var menus []MenuRecord
	seen := make(map[*syntax.Node]bool)

	consider := func(obj *syntax.Node) {
		if !obj.Is(syntax.KindObject) || seen[obj] {
			return
		}
		seen[obj] = true
		if menu, ok := menuFromObject(obj); ok {
			menu.File = relPath
			menus = append(menus, menu)
		}
	}

	for _, arr := range file.Root.Descendants(syntax.KindArray) {
		for _, el := range arr.Elements() {
			consider(el)
		}
	}
	for _, obj := range file.Root.Descendants(syntax.KindObject) {
		consider(obj)
	}

	return menus
}

func menuFromObject(obj *syntax.Node) (MenuRecord, bool) {
	var menu MenuRecord

	for _, prop := range obj.Properties() {
		value := prop.Target
		if value == nil {
			continue
		}

		switch prop.Name {
		case "title", "label":
			if s, ok := value.StringValue(); ok {
				menu.Label = s
			}
		case "href", "path":
			if s, ok := value.StringValue(); ok {
				menu.Path = s
			}
		case "icon":
			menu.Icon = value.Text()
		case "section":
			if s, ok := value.StringValue(); ok {
				menu.Section = s
			}
		case "hidden":
			if value.Is(syntax.KindBool) {
				menu.Hidden = value.Value == "true"
			}
		case "component", "componentRef":
			switch {
			case value.Is(syntax.KindString):
				menu.ComponentRef = value.Value
			case value.Is(syntax.KindIdentifier), value.Is(syntax.KindJSX):
				menu.ComponentRef = value.Name
			}
		case "importPath":
			if s, ok := value.StringValue(); ok {
				menu.ImportPath = s
			}
		case "lazy":
			if specifier, component, ok := lazyImport(value); ok {
				menu.ImportPath = specifier
				if menu.ComponentRef == "" {
					menu.ComponentRef = component
				}
			}
		case "roles":
			for _, el := range value.Elements() {
				if s, ok := el.StringValue(); ok {
					menu.Roles = append(menu.Roles, s)
				}
			}
		}
	}

	return menu, menu.Label != "" && menu.Path != ""
}
