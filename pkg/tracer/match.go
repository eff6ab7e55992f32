package tracer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/simonhull/firebird-suite/heron/pkg/source"
)

// ExactMatchSpecificity is the score of a pattern equal to the URL.
const ExactMatchSpecificity = 1000

// RouteMatch is the route selected for a URL.
type RouteMatch struct {
	Pattern     string             `json:"pattern"`
	Specificity int                `json:"specificity"`
	Route       source.RouteRecord `json:"route"`
	Params      map[string]string  `json:"params"`
}

var paramNamePattern = regexp.MustCompile(`^:(\w+)`)

// paramName strips the colon and any regex constraint from a :param segment.
func paramName(segment string) string {
	if m := paramNamePattern.FindStringSubmatch(segment); m != nil {
		return m[1]
	}
	return strings.TrimPrefix(segment, ":")
}

func segments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizeURL drops the query string and fragment from a URL path.
func NormalizeURL(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	if url == "" {
		return "/"
	}
	return url
}

// MatchRoute scores route against url. The second result is false when the
// route cannot serve the URL.
//
// An identical pattern scores ExactMatchSpecificity. Otherwise each literal
// segment is worth 100, each :param costs 10 and each wildcard segment adds 1.
// Segment counts must agree unless the pattern contains a wildcard.
func MatchRoute(url string, route source.RouteRecord) (RouteMatch, bool) {
	pattern := route.URLPattern
	if pattern == "" {
		return RouteMatch{}, false
	}
	params := make(map[string]string)

	if url == pattern {
		return RouteMatch{Pattern: pattern, Specificity: ExactMatchSpecificity, Route: route, Params: params}, true
	}

	patternParts := segments(pattern)
	urlParts := segments(url)

	if len(patternParts) != len(urlParts) && !strings.Contains(pattern, "*") {
		return RouteMatch{}, false
	}

	var static, dynamic, wildcards int
	for i, part := range patternParts {
		if i >= len(urlParts) {
			break
		}
		switch {
		case strings.HasPrefix(part, ":"):
			params[paramName(part)] = urlParts[i]
			dynamic++
		case part == urlParts[i]:
			static++
		case strings.Contains(part, "*"):
			wildcards++
		default:
			return RouteMatch{}, false
		}
	}

	return RouteMatch{
		Pattern:     pattern,
		Specificity: static*100 - dynamic*10 + wildcards,
		Route:       route,
		Params:      params,
	}, true
}

// FindRouteMatch returns the highest-scoring route for url, or nil.
// Equal scores keep declaration order, so the first declared route wins.
func FindRouteMatch(url string, routes []source.RouteRecord) *RouteMatch {
	var matches []RouteMatch
	for _, route := range routes {
		if m, ok := MatchRoute(url, route); ok {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Specificity > matches[j].Specificity
	})
	return &matches[0]
}

// ExtractDynamicParams maps each :param of pattern to the URL segment at the
// same position.
func ExtractDynamicParams(url, pattern string) map[string]string {
	params := make(map[string]string)
	urlParts := segments(url)
	for i, part := range segments(pattern) {
		if i >= len(urlParts) {
			break
		}
		if strings.HasPrefix(part, ":") {
			params[paramName(part)] = urlParts[i]
		}
	}
	return params
}
