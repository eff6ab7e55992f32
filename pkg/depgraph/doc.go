// Package depgraph walks import declarations outward from a component file
// and classifies what it reaches.
//
// Resolution is delegated to a Resolver (normally *source.Parser) and
// parsing to a Loader (normally *syntax.Project). Unresolved specifiers,
// such as npm packages, are reported under their raw specifier and never
// followed.
package depgraph
