package tracer

import (
	"fmt"
	"strings"

	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// Status classifies whether the router and the menus agree about a URL.
type Status string

const (
	StatusDefinitive Status = "definitive"
	StatusRouterOnly Status = "router_only"
	StatusConflict   Status = "conflict"
	StatusNotFound   Status = "not_found"
)

// RouterRef is the component the router renders for a matched route.
type RouterRef struct {
	ComponentName string `json:"componentName,omitempty"`
	FilePath      string `json:"filePath,omitempty"`
	ImportPath    string `json:"importPath,omitempty"`
}

// TruthResult is the outcome of cross-referencing a match with the menus.
type TruthResult struct {
	Status    Status              `json:"status"`
	Router    *RouterRef          `json:"router,omitempty"`
	Menus     []source.MenuRecord `json:"menus"`
	Conflicts []string            `json:"conflicts,omitempty"`
	Warnings  []string            `json:"warnings"`
}

// DetermineTruth classifies url given its route match (nil when no route
// matched) and the declared menus.
func DetermineTruth(url string, match *RouteMatch, menus []source.MenuRecord) TruthResult {
	if match == nil {
		return TruthResult{
			Status:   StatusNotFound,
			Menus:    []source.MenuRecord{},
			Warnings: []string{fmt.Sprintf("No route found for URL: %s", url)},
		}
	}

	router := &RouterRef{
		ComponentName: match.Route.ComponentName,
		FilePath:      match.Route.FilePath,
		ImportPath:    match.Route.ImportPath,
	}

	matching := FindMatchingMenus(url, match.Pattern, menus)
	if len(matching) == 0 {
		return TruthResult{
			Status:   StatusRouterOnly,
			Router:   router,
			Menus:    []source.MenuRecord{},
			Warnings: []string{"No menu items found for this route"},
		}
	}

	refs := componentRefs(matching)
	if len(refs) > 0 && !componentAgrees(router.ComponentName, refs) {
		return TruthResult{
			Status: StatusConflict,
			Router: router,
			Menus:  matching,
			Conflicts: []string{fmt.Sprintf("Router component %q doesn't match menu components: %s",
				router.ComponentName, strings.Join(refs, ", "))},
			Warnings: []string{},
		}
	}

	return TruthResult{
		Status:   StatusDefinitive,
		Router:   router,
		Menus:    matching,
		Warnings: []string{},
	}
}

// componentRefs returns the distinct non-empty componentRefs in menu order.
func componentRefs(menus []source.MenuRecord) []string {
	seen := make(map[string]bool)
	var refs []string
	for _, m := range menus {
		if m.ComponentRef != "" && !seen[m.ComponentRef] {
			seen[m.ComponentRef] = true
			refs = append(refs, m.ComponentRef)
		}
	}
	return refs
}

// componentAgrees reports whether any menu reference equals, contains or is
// contained in the router's component name. An unnamed router component is
// contained in every reference.
func componentAgrees(component string, refs []string) bool {
	for _, ref := range refs {
		if ref == component || strings.Contains(ref, component) ||
			(component != "" && strings.Contains(component, ref)) {
			return true
		}
	}
	return false
}

// FindMatchingMenus returns the menus pointing at url or at pattern. A menu
// matches on an identical path, an identical pattern, a segment-wise pattern
// match, or the URL's parent path.
func FindMatchingMenus(url, pattern string, menus []source.MenuRecord) []source.MenuRecord {
	matching := make([]source.MenuRecord, 0)
	parent := parentPath(url)

	for _, m := range menus {
		switch {
		case m.Path == url || m.Path == pattern:
			matching = append(matching, m)
		case MenuPathMatches(m.Path, pattern):
			matching = append(matching, m)
		case parent != "" && m.Path == parent:
			matching = append(matching, m)
		}
	}
	return matching
}

// MenuPathMatches reports whether menuPath fits routePattern segment by
// segment, with :param segments accepting any value.
func MenuPathMatches(menuPath, routePattern string) bool {
	menuParts := segments(menuPath)
	routeParts := segments(routePattern)
	if len(menuParts) != len(routeParts) {
		return false
	}
	for i, part := range routeParts {
		if strings.HasPrefix(part, ":") {
			continue
		}
		if menuParts[i] != part {
			return false
		}
	}
	return true
}

// parentPath turns /a/b into /a. Single-segment paths have no parent.
func parentPath(url string) string {
	i := strings.LastIndex(url, "/")
	if i <= 0 {
		return ""
	}
	return url[:i]
}
