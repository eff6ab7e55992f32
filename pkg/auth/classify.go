package auth

import (
	"path"
	"regexp"
	"strings"
)

var (
	clientKeywords   = regexp.MustCompile(`(?i)front-end|client|web|components|pages|hooks`)
	clientExtensions = map[string]bool{".ts": true, ".tsx": true}
	clientExclusions = regexp.MustCompile(`server|backend|api|node_modules`)
	serverKeywords   = regexp.MustCompile(`(?i)server|backend|api|middleware|routes|controllers`)
	scriptExtensions = map[string]bool{".js": true, ".jsx": true}
	astExtensions    = map[string]bool{".ts": true, ".tsx": true, ".js": true, ".jsx": true}
)

// isClientFile reports whether a project-relative path is browser code.
// The exclusion list is case-sensitive.
func isClientFile(rel string) bool {
	return clientKeywords.MatchString(rel) &&
		clientExtensions[strings.ToLower(path.Ext(rel))] &&
		!clientExclusions.MatchString(rel)
}

// isServerFile reports whether a project-relative path is server code.
// Plain .js and .jsx files that are not client code count as server code.
func isServerFile(rel string) bool {
	if serverKeywords.MatchString(rel) {
		return true
	}
	return scriptExtensions[strings.ToLower(path.Ext(rel))] && !isClientFile(rel)
}

// classify returns the side of a file, or false when it is neither.
func classify(rel string) (Side, bool) {
	switch {
	case isClientFile(rel):
		return SideClient, true
	case isServerFile(rel):
		return SideServer, true
	default:
		return "", false
	}
}
