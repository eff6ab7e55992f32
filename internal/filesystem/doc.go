// Package filesystem provides directory traversal and glob selection with
// smart defaults for JavaScript and TypeScript projects.
//
// # Overview
//
// Walk skips node_modules, build output and hidden directories unless told
// otherwise. Glob layers doublestar patterns on top of Walk so callers can
// select files the way a bundler config would:
//
//	files, err := filesystem.Glob(root, filesystem.GlobOptions{
//	    Include: []string{"server/**/*.{ts,js}", "*.{ts,js}"},
//	    Walk: filesystem.WalkOptions{
//	        IgnorePatterns: []string{"*.min.js", "*.map"},
//	    },
//	})
package filesystem
