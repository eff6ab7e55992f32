package source

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/simonhull/firebird-suite/heron/internal/filesystem"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/syntax"
)

// routerCandidates are probed in order, each with every router extension.
var routerCandidates = []string{
	"src/routes/Router",
	"src/app/Router",
	"src/Router",
	"Router",
}

var routerExtensions = []string{".tsx", ".ts", ".jsx", ".js"}

// FindRouter returns the router file to parse. An explicit path is used as
// given (relative paths are taken from the frontend root); otherwise the
// conventional locations are probed.
func (p *Parser) FindRouter(routerPath string) (string, error) {
	if routerPath != "" {
		if !filepath.IsAbs(routerPath) {
			routerPath = filepath.Join(p.root, routerPath)
		}
		if !filesystem.IsFile(routerPath) {
			return "", fmt.Errorf("%w: %s", ErrRouterNotFound, routerPath)
		}
		return routerPath, nil
	}

	for _, candidate := range routerCandidates {
		for _, ext := range routerExtensions {
			full := filepath.Join(p.root, filepath.FromSlash(candidate+ext))
			if filesystem.IsFile(full) {
				return full, nil
			}
		}
	}

	return "", fmt.Errorf("%w: no Router file in src/routes, src/app, src or %s", ErrRouterNotFound, p.root)
}

// ParseRouter extracts every route declaration from the router file.
func (p *Parser) ParseRouter(routerPath string) (*ParsedRoutes, error) {
	routerPath, err := p.FindRouter(routerPath)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Parsing router file", logger.F("router", p.rel(routerPath)))

	file, err := p.project.Load(routerPath)
	if err != nil {
		p.logger.Error("Failed to parse router", logger.F("router", routerPath), logger.F("error", err))
		return nil, fmt.Errorf("parsing router: %w", err)
	}

	result := &ParsedRoutes{
		RouterPath: routerPath,
		Components: make(map[string]string),
	}

	bindings := componentBindings(file)

	// Loadable(lazy(() => import(...))) anywhere in the file.
	for _, call := range file.Root.Descendants(syntax.KindCall) {
		if call.Name != "Loadable" || len(call.Args) == 0 {
			continue
		}
		inner := call.Args[0]
		if !inner.Is(syntax.KindCall) || inner.Name != "lazy" || len(inner.Args) == 0 {
			continue
		}
		if specifier, component, ok := lazyImport(inner.Args[0]); ok {
			result.Components[component] = specifier
		}
	}

	for _, obj := range file.Root.Descendants(syntax.KindObject) {
		if route, ok := routeFromObject(obj, bindings); ok {
			result.Routes = append(result.Routes, route)
		}
	}

	nested := 0
	for _, arr := range file.Root.Descendants(syntax.KindArray) {
		parent := arr.Parent
		if !parent.Is(syntax.KindProperty) || parent.Name != "children" || parent.Target != arr {
			continue
		}
		for _, el := range arr.Elements() {
			if route, ok := routeFromObject(el, bindings); ok {
				route.Nested = true
				result.Routes = append(result.Routes, route)
				nested++
			}
		}
	}
	if nested > 0 {
		// Every nested route is also reached by the object scan above.
		p.logger.Debug("Nested routes collected alongside their flat duplicates",
			logger.F("nested", nested))
	}

	for i := range result.Routes {
		route := &result.Routes[i]
		if route.ComponentName == "" || route.ImportPath == "" {
			continue
		}
		if resolved := p.ResolveComponentPath(route.ImportPath, route.ComponentName, routerPath); resolved != "" {
			route.FilePath = resolved
			result.Components[route.ComponentName] = resolved
		}
	}

	p.logger.Info("Router parsing completed",
		logger.F("routes", len(result.Routes)),
		logger.F("components", len(result.Components)))

	return result, nil
}

// routeFromObject reads a { path, element, lazy } route object. Objects
// without a non-empty string path are not routes.
func routeFromObject(obj *syntax.Node, bindings map[string]string) (RouteRecord, bool) {
	pattern, ok := obj.Property("path").StringValue()
	if !ok || pattern == "" || !obj.Is(syntax.KindObject) {
		return RouteRecord{}, false
	}

	route := RouteRecord{
		URLPattern:    pattern,
		DynamicParams: ExtractParamNames(pattern),
		Line:          obj.Line,
	}

	if el := obj.Property("element"); el.Is(syntax.KindJSX) && el.Name != "" {
		route.Element = el.Name
		route.ComponentName = el.Name
		if len(el.JSXChildren()) > 0 {
			route.LayoutWrapped = true
			if inner := el.InnermostJSX(); inner.Name != "" {
				route.ComponentName = inner.Name
			}
		}
		if specifier, ok := bindings[route.ComponentName]; ok {
			route.ImportPath = specifier
		}
	}

	if specifier, component, ok := lazyImport(obj.Property("lazy")); ok {
		route.Lazy = specifier
		route.ImportPath = specifier
		route.ComponentName = component
	}

	return route, true
}

// lazyImport matches () => import('specifier') and returns the specifier and the
// component name derived from its basename.
func lazyImport(n *syntax.Node) (specifier, component string, ok bool) {
	if !n.Is(syntax.KindArrow) {
		return "", "", false
	}
	body := n.Target
	if !body.Is(syntax.KindCall) || body.Name != "import" || len(body.Args) == 0 {
		return "", "", false
	}
	specifier, ok = body.Args[0].StringValue()
	if !ok {
		return "", "", false
	}
	base := path.Base(specifier)
	return specifier, base[:len(base)-len(path.Ext(base))], true
}

// componentBindings maps local names to the specifier they were loaded from:
// default imports and lazy-loaded component variables.
func componentBindings(file *syntax.File) map[string]string {
	bindings := make(map[string]string)

	for _, imp := range file.Imports() {
		if imp.Name != "" && imp.Value != "" {
			bindings[imp.Name] = imp.Value
		}
	}

	for _, v := range file.Root.Descendants(syntax.KindVariable) {
		if v.Name == "" {
			continue
		}
		if specifier, ok := lazyCallSpecifier(v.Target); ok {
			bindings[v.Name] = specifier
		}
	}

	return bindings
}

// lazyCallSpecifier unwraps lazy(...), React.lazy(...) and
// Loadable(lazy(...)) down to the imported specifier.
func lazyCallSpecifier(n *syntax.Node) (string, bool) {
	for n.Is(syntax.KindCall) && len(n.Args) > 0 {
		switch n.Name {
		case "lazy", "React.lazy":
			specifier, _, ok := lazyImport(n.Args[0])
			return specifier, ok
		case "Loadable":
			n = n.Args[0]
		default:
			return "", false
		}
	}
	return "", false
}
