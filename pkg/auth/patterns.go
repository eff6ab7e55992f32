package auth

import (
	"regexp"
	"strings"

	"github.com/simonhull/firebird-suite/heron/pkg/syntax"
)

var (
	jwtLibraries = []string{
		"jsonwebtoken",
		"jose",
		"jwt-decode",
		"node-jsonwebtoken",
		"@auth0/jwt-decode",
		"jwt-simple",
		"jws",
	}

	jwtMethods = map[string]bool{
		"sign":      true,
		"verify":    true,
		"decode":    true,
		"jwtVerify": true,
		"signJWT":   true,
	}

	tokenStorageKeys = []string{
		"token", "accesstoken", "access_token", "jwt", "authtoken", "auth_token",
		"bearertoken", "bearer_token", "sessiontoken", "session_token", "apikey", "api_key",
	}

	webStorageObjects = map[string]bool{"localStorage": true, "sessionStorage": true}
	webStorageMethods = map[string]bool{"setItem": true, "getItem": true}
	httpClients       = map[string]bool{"fetch": true, "axios": true}
)

func isJWTLibrary(specifier string) bool {
	for _, lib := range jwtLibraries {
		if specifier == lib || strings.HasPrefix(specifier, lib+"/") {
			return true
		}
	}
	return false
}

func isTokenStorageKey(key string) bool {
	key = strings.ToLower(key)
	for _, tk := range tokenStorageKeys {
		if strings.Contains(key, tk) {
			return true
		}
	}
	return false
}

// truncate shortens s to limit runes, ending in "...".
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// fileScan is the per-file context the detectors report into.
type fileScan struct {
	rel  string
	side Side
	out  *findingSet
}

func (fs *fileScan) client() bool { return fs.side == SideClient }

func (fs *fileScan) report(risk Risk, line int, code, pattern, why, hint string) {
	fs.out.add(Finding{
		Type:    fs.side,
		Risk:    risk,
		File:    fs.rel,
		Line:    line,
		Code:    code,
		Pattern: pattern,
		Why:     why,
		Hint:    hint,
	})
}

// pick returns client on client files and server otherwise.
func pick[T any](fs *fileScan, client, server T) T {
	if fs.client() {
		return client
	}
	return server
}

// astPass runs the syntax-tree detectors over a parsed file.
func (fs *fileScan) astPass(file *syntax.File) {
	fs.checkImports(file)
	fs.checkCalls(file.Root)
	fs.checkProperties(file.Root)
	fs.checkStrings(file.Root)
}

func (fs *fileScan) checkImports(file *syntax.File) {
	for _, imp := range file.Imports() {
		if !isJWTLibrary(imp.Value) {
			continue
		}
		fs.report(
			pick(fs, RiskHigh, RiskMed),
			imp.Line,
			strings.TrimSpace(imp.Text()),
			PatternJWTLibraryImport,
			pick(fs,
				"JWT library imported in client code - tokens exposed to XSS",
				"JWT library used in server - consider session cookies for browser clients"),
			pick(fs,
				"Remove JWT handling from client. Use server sessions with HTTP-only cookies instead.",
				"Keep JWT for API integrations, but prefer sessions for browser clients."),
		)
	}
}

func (fs *fileScan) checkCalls(root *syntax.Node) {
	for _, call := range root.Descendants(syntax.KindCall) {
		code := truncate(strings.TrimSpace(call.Text()), 80)
		callee := call.Callee

		if callee.Is(syntax.KindMember) && jwtMethods[callee.Name] {
			fs.report(
				pick(fs, RiskHigh, RiskMed),
				call.Line,
				code,
				PatternJWTMethodCall,
				pick(fs, "JWT operations in client code", "JWT operations detected"),
				pick(fs,
					"Move authentication logic to server. Use session cookies.",
					"Consider session auth for browser clients, keep JWT for API integrations."),
			)
		}

		if !fs.client() {
			continue
		}

		if callee.Is(syntax.KindMember) && callee.Object.Is(syntax.KindIdentifier) &&
			webStorageObjects[callee.Object.Name] && webStorageMethods[callee.Name] && len(call.Args) > 0 {
			if key, ok := call.Args[0].StringValue(); ok && isTokenStorageKey(key) {
				fs.report(RiskHigh, call.Line, code, PatternTokenWebStorage,
					"JWT/token stored in web storage - vulnerable to XSS attacks",
					"Remove token storage. Use HTTP-only session cookies instead.")
			}
		}

		isHTTPClient := (callee.Is(syntax.KindIdentifier) && httpClients[callee.Name]) || callee.Is(syntax.KindMember)
		if isHTTPClient && hasAuthorizationHeader(call.Args) {
			fs.report(RiskHigh, call.Line, code, PatternHTTPAuthHeader,
				"HTTP client configured with Authorization header",
				`Remove Authorization header. Use credentials: "include" and session cookies.`)
		}
	}
}

// hasAuthorizationHeader looks for { headers: { Authorization: ... } } among
// call arguments.
func hasAuthorizationHeader(args []*syntax.Node) bool {
	for _, arg := range args {
		for _, prop := range arg.Properties() {
			if prop.Name != "headers" {
				continue
			}
			for _, header := range prop.Target.Properties() {
				if strings.EqualFold(header.Name, "authorization") {
					return true
				}
			}
		}
	}
	return false
}

func (fs *fileScan) checkProperties(root *syntax.Node) {
	if !fs.client() {
		return
	}
	for _, prop := range root.Descendants(syntax.KindProperty) {
		if !strings.EqualFold(prop.Name, "authorization") {
			continue
		}
		value, ok := prop.Target.StringValue()
		if !ok || !strings.Contains(strings.ToLower(value), "bearer") {
			continue
		}
		fs.report(RiskHigh, prop.Line, truncate(strings.TrimSpace(prop.Text()), 80), PatternAuthorizationBearer,
			"Bearer token in client-side request header",
			`Remove Authorization header. Configure HTTP client to use credentials: "include" for cookies.`)
	}
}

func (fs *fileScan) checkStrings(root *syntax.Node) {
	for _, str := range root.Descendants(syntax.KindString) {
		value := strings.ToLower(str.Value)
		code := truncate(strings.TrimSpace(str.Text()), 50)

		if fs.client() && strings.Contains(value, "bearer ") {
			fs.report(RiskHigh, str.Line, code, PatternBearerString,
				"Bearer token string in client code",
				`Remove bearer token usage. Use session cookies with credentials: "include".`)
		}

		if !fs.client() &&
			(strings.Contains(value, "/auth") || strings.Contains(value, "/login")) &&
			(strings.Contains(value, "token") || strings.Contains(value, "jwt")) {
			fs.report(RiskMed, str.Line, code, PatternAuthEndpoint,
				"Auth endpoint that may issue tokens",
				"Consider issuing session cookies instead of tokens for browser clients.")
		}
	}
}

// textRule is a line-level detector that runs on every classified file.
type textRule struct {
	re      *regexp.Regexp
	side    Side
	risk    Risk
	pattern string
	why     string
	hint    string
}

var textRules = []textRule{
	{
		re:      regexp.MustCompile(`(?i)authorization.*bearer`),
		side:    SideClient,
		risk:    RiskHigh,
		pattern: PatternAuthorizationBearer,
		why:     "Bearer token in client request",
		hint:    `Replace with session cookie authentication using credentials: "include".`,
	},
	{
		re:      regexp.MustCompile(`(?i)jwt\.verify|jsonwebtoken|jose`),
		side:    SideServer,
		risk:    RiskMed,
		pattern: PatternServerJWTUsage,
		why:     "JWT verification in server code",
		hint:    "Consider session middleware for browser routes, keep JWT for API integrations.",
	},
	{
		re:      regexp.MustCompile(`(?i)(localStorage|sessionStorage).*token`),
		side:    SideClient,
		risk:    RiskHigh,
		pattern: PatternTokenStorage,
		why:     "Token stored in web storage - XSS vulnerable",
		hint:    "Remove token storage. Use HTTP-only session cookies.",
	},
	{
		re:      regexp.MustCompile(`(?i)cors.*credentials.*true`),
		side:    SideServer,
		risk:    RiskLow,
		pattern: PatternCORSCredentials,
		why:     "CORS configured with credentials - ensure proper session security",
		hint:    "Verify SameSite, HttpOnly, and Secure cookie settings when using credentials.",
	},
}

// textPass applies textRules line by line so files the parser cannot handle
// are still covered.
func (fs *fileScan) textPass(content string) {
	for i, line := range strings.Split(content, "\n") {
		for _, rule := range textRules {
			if rule.side != fs.side || !rule.re.MatchString(line) {
				continue
			}
			fs.report(rule.risk, i+1, truncate(strings.TrimSpace(line), 80), rule.pattern, rule.why, rule.hint)
		}
	}
}
