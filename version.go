// Package heron traces URLs through a single-page application's router and
// menus and audits its authentication code for browser token handling.
package heron

// Version is the current heron release.
const Version = "0.3.0"
