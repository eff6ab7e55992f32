// Package tracer decides what a URL actually renders in a single-page
// application and whether the navigation menus agree.
//
// A trace parses the router, scans the menus, picks the most specific
// matching route, classifies the result as definitive, router_only,
// conflict or not_found, and optionally walks the imports of the rendered
// component:
//
//	tr := tracer.New("front-end", tracer.WithLogger(log))
//	art, err := tr.TraceURL("/apps/records/46", tracer.TraceOptions{FollowImports: true})
//	if errors.Is(err, source.ErrRouterNotFound) {
//		// point RouterPath at the router file
//	}
//
// Every call owns its parse context; a Tracer can be reused freely.
package tracer
