package auth

// Side says whether a finding was made in browser or server code.
type Side string

const (
	SideClient Side = "client"
	SideServer Side = "server"
)

// Risk is the severity tier of a finding.
type Risk string

const (
	RiskLow  Risk = "low"
	RiskMed  Risk = "med"
	RiskHigh Risk = "high"
)

// Heuristic identifiers reported in Finding.Pattern.
const (
	PatternJWTLibraryImport    = "jwt-library-import"
	PatternJWTMethodCall       = "jwt-method-call"
	PatternTokenWebStorage     = "token-web-storage"
	PatternHTTPAuthHeader      = "http-auth-header"
	PatternAuthorizationBearer = "authorization-bearer"
	PatternBearerString        = "bearer-string"
	PatternAuthEndpoint        = "auth-endpoint"
	PatternServerJWTUsage      = "server-jwt-usage"
	PatternTokenStorage        = "token-storage"
	PatternCORSCredentials     = "cors-credentials"
)

// Finding is one detected instance of a risky auth pattern.
type Finding struct {
	Type    Side   `json:"type"`
	Risk    Risk   `json:"risk"`
	File    string `json:"file"` // Slash-separated, relative to the project root
	Line    int    `json:"line"`
	Code    string `json:"code"` // Truncated snippet
	Pattern string `json:"pattern"`
	Why     string `json:"why"`
	Hint    string `json:"hint"`
}

// Summary aggregates an audit.
type Summary struct {
	FilesScanned   int `json:"filesScanned"`
	JWTFindings    int `json:"jwtFindings"`
	ClientFindings int `json:"clientFindings"`
	ServerFindings int `json:"serverFindings"`
	RiskScore      int `json:"riskScore"` // 0 to 10
}

// Result is the full output of an audit.
type Result struct {
	Summary            Summary   `json:"summary"`
	Findings           []Finding `json:"findings"`
	RecommendedActions []string  `json:"recommendedActions"`
}

// FindingsForFile returns the findings reported for one file, in report
// order. file is relative to the project root.
func (r *Result) FindingsForFile(file string) []Finding {
	out := make([]Finding, 0)
	for _, f := range r.Findings {
		if f.File == file {
			out = append(out, f)
		}
	}
	return out
}

type findingKey struct {
	file    string
	line    int
	pattern string
}

// findingSet keeps the first finding for each (file, line, pattern).
type findingSet struct {
	seen     map[findingKey]bool
	findings []Finding
}

func newFindingSet() *findingSet {
	return &findingSet{
		seen:     make(map[findingKey]bool),
		findings: make([]Finding, 0),
	}
}

func (s *findingSet) add(f Finding) bool {
	key := findingKey{file: f.File, line: f.Line, pattern: f.Pattern}
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.findings = append(s.findings, f)
	return true
}
