package auth

// MaxRiskScore caps Summary.RiskScore.
const MaxRiskScore = 10

// patternCounts tallies the findings that drive scoring and recommendations.
type patternCounts struct {
	client        int
	server        int
	tokenStorage  int // client token-web-storage and token-storage
	bearer        int // client authorization-bearer and bearer-string
	clientJWTLibs int
	serverJWT     int
	cors          int
}

func countPatterns(findings []Finding) patternCounts {
	var c patternCounts
	for _, f := range findings {
		client := f.Type == SideClient
		if client {
			c.client++
		} else {
			c.server++
		}

		switch {
		case client && (f.Pattern == PatternTokenWebStorage || f.Pattern == PatternTokenStorage):
			c.tokenStorage++
		case client && (f.Pattern == PatternAuthorizationBearer || f.Pattern == PatternBearerString):
			c.bearer++
		case client && f.Pattern == PatternJWTLibraryImport:
			c.clientJWTLibs++
		case !client && f.Pattern == PatternServerJWTUsage:
			c.serverJWT++
		}
		if f.Pattern == PatternCORSCredentials {
			c.cors++
		}
	}
	return c
}

// RiskScore weighs findings on a 0 to 10 scale. Client token storage and
// widespread server JWT acceptance weigh 3 each, client JWT libraries 2,
// credentialed CORS and any client bearer usage 1 each.
func RiskScore(findings []Finding) int {
	c := countPatterns(findings)

	serverJWT := c.serverJWT
	if serverJWT > 2 {
		serverJWT = 3
	}

	score := min(c.tokenStorage*3, 3) +
		min(serverJWT, 3) +
		min(c.clientJWTLibs*2, 2) +
		min(c.cors, 1)
	if c.bearer > 0 {
		score++
	}
	return min(score, MaxRiskScore)
}

func summarize(findings []Finding, filesScanned int) Summary {
	c := countPatterns(findings)
	return Summary{
		FilesScanned:   filesScanned,
		JWTFindings:    len(findings),
		ClientFindings: c.client,
		ServerFindings: c.server,
		RiskScore:      RiskScore(findings),
	}
}

// Recommendations returns remediation steps for a set of findings. The
// cookie, session store and header advice is always included.
func Recommendations(findings []Finding) []string {
	c := countPatterns(findings)
	var recs []string

	if c.tokenStorage > 0 || c.bearer > 0 {
		recs = append(recs,
			"Migrate browser authentication from JWT to HTTP-only session cookies",
			"Remove all token storage from localStorage/sessionStorage",
			`Configure HTTP clients with credentials: "include" instead of Authorization headers`,
		)
	}

	if c.serverJWT > 0 {
		recs = append(recs,
			"Implement session middleware for browser routes; restrict JWT to API integrations",
			"Add CSRF protection for state-changing routes when using cookies",
		)
	}

	recs = append(recs,
		"Set secure cookie attributes: HttpOnly, Secure, SameSite=Lax or Strict",
		"Implement server-side session store with proper logout invalidation",
		"Add security headers: X-Frame-Options, CSP, X-Content-Type-Options",
	)

	if c.cors > 0 {
		recs = append(recs, "Review CORS configuration - ensure credentials are only allowed for trusted origins")
	}

	return recs
}
