package source

import "errors"

// ErrRouterNotFound is returned when no router file can be located.
var ErrRouterNotFound = errors.New("router file not found")

// RouteRecord is one route declaration extracted from the router file.
type RouteRecord struct {
	URLPattern    string   `json:"urlPattern"`
	Element       string   `json:"element,omitempty"`       // Outer JSX tag of the element property
	Lazy          string   `json:"lazy,omitempty"`          // Specifier of a lazy: () => import(...) property
	ImportPath    string   `json:"importPath,omitempty"`    // Specifier the component is imported from
	ComponentName string   `json:"componentName,omitempty"` // Rendered component, innermost when layout-wrapped
	FilePath      string   `json:"filePath,omitempty"`      // Resolved component file on disk
	DynamicParams []string `json:"dynamicParams"`
	Nested        bool     `json:"nested"`        // Declared inside a children array
	LayoutWrapped bool     `json:"layoutWrapped"` // Element wraps further JSX
	Line          int      `json:"line"`
}

// MenuRecord is one navigation entry extracted from a menu file.
type MenuRecord struct {
	Label        string   `json:"label"`
	Path         string   `json:"path"`
	Icon         string   `json:"icon,omitempty"`
	ComponentRef string   `json:"componentRef,omitempty"`
	ImportPath   string   `json:"importPath,omitempty"`
	Section      string   `json:"section,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	Hidden       bool     `json:"hidden,omitempty"`
	File         string   `json:"file,omitempty"` // Menu file the entry was declared in
}

// ParsedRoutes is the result of parsing a router file.
type ParsedRoutes struct {
	RouterPath string
	Routes     []RouteRecord
	Components map[string]string // componentName → resolved file or import specifier
}

// ParsedMenus is the result of scanning menu files.
type ParsedMenus struct {
	Files    []string
	Menus    []MenuRecord
	Sections []string // Distinct sections, sorted
}
