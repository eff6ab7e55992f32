package tracer

import (
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// RouteMapOptions selects the router and menu files for BuildRouteMap.
type RouteMapOptions struct {
	RouterPath string
	MenuGlob   string
}

// RouteMapEntry is one route with the menus that point at it.
type RouteMapEntry struct {
	Route  source.RouteRecord  `json:"route"`
	Menus  []source.MenuRecord `json:"menus"`
	Status Status              `json:"status"` // definitive or router_only
}

// RouteMap cross-references every declared route with the menus.
type RouteMap struct {
	RouterPath  string               `json:"routerPath"`
	Routes      []source.RouteRecord `json:"routes"`
	Menus       []source.MenuRecord  `json:"menus"`
	Sections    []string             `json:"sections"`
	Entries     []RouteMapEntry      `json:"entries"`
	OrphanMenus []source.MenuRecord  `json:"orphanMenus"` // Menus no route serves
}

// BuildRouteMap parses the router and menus once and pairs every route with
// its menus. It fails only when the router cannot be found or parsed.
func (t *Tracer) BuildRouteMap(opts RouteMapOptions) (*RouteMap, error) {
	s := t.newSession()

	routes, err := s.parser.ParseRouter(opts.RouterPath)
	if err != nil {
		t.logger.Error("Route map failed", logger.F("error", err))
		return nil, err
	}

	menus, err := s.parser.ParseMenus(opts.MenuGlob)
	if err != nil {
		t.logger.Warn("Menu scan failed", logger.F("error", err))
		menus = &source.ParsedMenus{}
	}

	rm := &RouteMap{
		RouterPath:  routes.RouterPath,
		Routes:      routes.Routes,
		Menus:       menus.Menus,
		Sections:    menus.Sections,
		Entries:     make([]RouteMapEntry, 0, len(routes.Routes)),
		OrphanMenus: make([]source.MenuRecord, 0),
	}

	served := make(map[int]bool)
	for _, route := range routes.Routes {
		matching := FindMatchingMenus("", route.URLPattern, menus.Menus)
		status := StatusRouterOnly
		if len(matching) > 0 {
			status = StatusDefinitive
		}
		rm.Entries = append(rm.Entries, RouteMapEntry{Route: route, Menus: matching, Status: status})

		for i, m := range menus.Menus {
			if !served[i] && (m.Path == route.URLPattern || MenuPathMatches(m.Path, route.URLPattern)) {
				served[i] = true
			}
		}
	}

	for i, m := range menus.Menus {
		if !served[i] {
			rm.OrphanMenus = append(rm.OrphanMenus, m)
		}
	}

	t.logger.Info("Route map built",
		logger.F("routes", len(rm.Entries)),
		logger.F("menus", len(rm.Menus)),
		logger.F("orphans", len(rm.OrphanMenus)))

	return rm, nil
}
