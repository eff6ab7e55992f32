// Package source extracts route and menu declarations from a single-page
// application's source tree.
//
// Routes come from one router file (src/routes/Router.tsx and friends):
// every object literal with a string path property is a route. Menus come
// from *menu*.ts(x) files or a caller-supplied doublestar glob, and accept
// both {label, path} and {title, href} spellings.
//
// Nothing here is fatal except a missing router, reported as
// ErrRouterNotFound. Unresolvable imports and unparseable menu files are
// logged and skipped.
package source
