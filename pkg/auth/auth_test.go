package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/syntax"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		body := strings.TrimLeft(dedent.Dedent(content), "\n")
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	}
	return root
}

// scanSource runs both passes over one in-memory file.
func scanSource(t *testing.T, rel, content string) []Finding {
	t.Helper()
	root := t.TempDir()
	s := &scan{
		root:    root,
		project: syntax.NewProject(),
		logger:  logger.NewSilentLogger(),
		out:     newFindingSet(),
	}
	body := strings.TrimLeft(dedent.Dedent(content), "\n")
	s.scanFile(filepath.Join(root, filepath.FromSlash(rel)), []byte(body))
	return s.out.findings
}

func patterns(findings []Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Pattern)
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		side Side
		ok   bool
	}{
		{"front-end/src/auth/login.ts", SideClient, true},
		{"client/src/App.tsx", SideClient, true},
		{"web/src/session.jsx", SideServer, true},
		{"front-end/src/components/Login.jsx", SideServer, true},
		{"front-end/src/hooks/useAuth.ts", SideClient, true},
		{"front-end/src/api/client.ts", SideServer, true},
		{"server/src/index.ts", SideServer, true},
		{"backend/middleware/auth.ts", SideServer, true},
		{"server.js", SideServer, true},
		{"front-end/src/legacy/util.js", SideServer, true},
		{"vite.config.ts", "", false},
		{"front-end/src/locales/en.json", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			side, ok := classify(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.side, side)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 50))

	long := strings.Repeat("a", 81)
	got := truncate(long, 80)
	assert.Len(t, got, 80)
	assert.True(t, strings.HasSuffix(got, "..."))

	assert.Equal(t, strings.Repeat("é", 47)+"...", truncate(strings.Repeat("é", 60), 50))
}

func TestScan_ClientTokenStorage(t *testing.T) {
	findings := scanSource(t, "front-end/src/auth/session.ts", `
		export function remember(t: string) {
		  localStorage.setItem('jwt_token', t);
		}
	`)

	// The line-level check reports the same line under its own pattern.
	assert.Equal(t, []string{PatternTokenWebStorage, PatternTokenStorage}, patterns(findings))

	f := findings[0]
	assert.Equal(t, RiskHigh, f.Risk)
	assert.Equal(t, SideClient, f.Type)
	assert.Equal(t, "front-end/src/auth/session.ts", f.File)
	assert.Equal(t, 2, f.Line)
	assert.Equal(t, "localStorage.setItem('jwt_token', t)", f.Code)
	assert.Equal(t, "JWT/token stored in web storage - vulnerable to XSS attacks", f.Why)
}

func TestScan_SameFileTwiceDoesNotDuplicate(t *testing.T) {
	root := t.TempDir()
	s := &scan{
		root:    root,
		project: syntax.NewProject(),
		logger:  logger.NewSilentLogger(),
		out:     newFindingSet(),
	}
	path := filepath.Join(root, "front-end", "src", "auth", "session.ts")
	content := []byte("localStorage.setItem('jwt_token', t);\n")

	s.scanFile(path, content)
	first := len(s.out.findings)
	s.scanFile(path, content)

	assert.Equal(t, first, len(s.out.findings))
}

func TestScan_StorageOfOtherKeysIsIgnored(t *testing.T) {
	findings := scanSource(t, "front-end/src/theme.ts", `
		localStorage.setItem('theme', 'dark');
	`)
	assert.Empty(t, findings)
}

func TestScan_ClientBearerHeaders(t *testing.T) {
	findings := scanSource(t, "client/src/http.ts", `
		import jwtDecode from 'jwt-decode';

		export const load = (token: string) =>
		  fetch('/records', { headers: { Authorization: 'Bearer abc' } });
	`)

	assert.ElementsMatch(t, []string{
		PatternJWTLibraryImport,
		PatternHTTPAuthHeader,
		PatternAuthorizationBearer,
		PatternBearerString,
	}, patterns(findings))

	for _, f := range findings {
		assert.Equal(t, SideClient, f.Type)
		assert.Equal(t, RiskHigh, f.Risk)
	}
}

func TestScan_ServerJWT(t *testing.T) {
	findings := scanSource(t, "server/src/middleware/auth.ts", `
		import jwt from 'jsonwebtoken';

		export function check(req) {
		  return jwt.verify(req.token, secret);
		}
	`)

	byPattern := make(map[string]Finding)
	for _, f := range findings {
		byPattern[f.Pattern] = f
		assert.Equal(t, SideServer, f.Type)
	}

	require.Contains(t, byPattern, PatternServerJWTUsage)
	assert.Equal(t, RiskMed, byPattern[PatternServerJWTUsage].Risk)
	assert.Equal(t, "JWT verification in server code", byPattern[PatternServerJWTUsage].Why)

	require.Contains(t, byPattern, PatternJWTLibraryImport)
	assert.Equal(t, RiskMed, byPattern[PatternJWTLibraryImport].Risk)
	assert.Equal(t, "import jwt from 'jsonwebtoken';", byPattern[PatternJWTLibraryImport].Code)

	require.Contains(t, byPattern, PatternJWTMethodCall)
	assert.Equal(t, 4, byPattern[PatternJWTMethodCall].Line)
}

func TestScan_ServerAuthEndpointAndCORS(t *testing.T) {
	findings := scanSource(t, "server/index.js", `
		app.use(cors({ origin: true, credentials: true }));
		app.post('/auth/token', issue);
	`)

	assert.ElementsMatch(t, []string{PatternCORSCredentials, PatternAuthEndpoint}, patterns(findings))
}

func TestScan_JSXComponentsGetServerTreatment(t *testing.T) {
	findings := scanSource(t, "front-end/src/components/Login.jsx", `
		import jwt from 'jsonwebtoken';
		localStorage.setItem('token', t);
	`)

	// Web storage checks are client-only, so only the JWT import is reported.
	assert.ElementsMatch(t, []string{PatternJWTLibraryImport, PatternServerJWTUsage}, patterns(findings))
	for _, f := range findings {
		assert.Equal(t, SideServer, f.Type)
		assert.NotEqual(t, RiskHigh, f.Risk)
	}
}

func TestScan_UnclassifiedFileIsSkipped(t *testing.T) {
	for _, rel := range []string{"vite.config.ts", "front-end/src/config/auth.json"} {
		findings := scanSource(t, rel, `
			localStorage.setItem('token', 'x');
		`)
		assert.Empty(t, findings, rel)
	}
}

func TestScan_LineChecksCatchTemplateLiterals(t *testing.T) {
	findings := scanSource(t, "web/src/headers.ts", strings.Repeat("// padding\n", 3)+
		"const h = `Authorization: Bearer ${token}`;\n")

	require.Len(t, findings, 1)
	assert.Equal(t, PatternAuthorizationBearer, findings[0].Pattern)
	assert.Equal(t, 4, findings[0].Line)
	assert.Equal(t, "Bearer token in client request", findings[0].Why)
}

func TestFindingSet_Dedupes(t *testing.T) {
	set := newFindingSet()
	f := Finding{File: "a.ts", Line: 3, Pattern: PatternBearerString}

	assert.True(t, set.add(f))
	f.Why = "different text"
	assert.False(t, set.add(f))
	f.Line = 4
	assert.True(t, set.add(f))
	assert.Len(t, set.findings, 2)
}

func TestRiskScore(t *testing.T) {
	client := func(pattern string) Finding { return Finding{Type: SideClient, Pattern: pattern} }
	server := func(pattern string) Finding { return Finding{Type: SideServer, Pattern: pattern} }

	tests := []struct {
		name     string
		findings []Finding
		want     int
	}{
		{"none", nil, 0},
		{"token storage caps at 3", []Finding{client(PatternTokenWebStorage), client(PatternTokenStorage)}, 3},
		{"two server jwt usages", []Finding{server(PatternServerJWTUsage), server(PatternServerJWTUsage)}, 2},
		{"many server jwt usages", []Finding{
			server(PatternServerJWTUsage), server(PatternServerJWTUsage),
			server(PatternServerJWTUsage), server(PatternServerJWTUsage),
		}, 3},
		{"client jwt library", []Finding{client(PatternJWTLibraryImport)}, 2},
		{"cors", []Finding{server(PatternCORSCredentials), server(PatternCORSCredentials)}, 1},
		{"bearer", []Finding{client(PatternBearerString), client(PatternAuthorizationBearer)}, 1},
		{"server storage pattern does not count", []Finding{server(PatternTokenStorage)}, 0},
		{"everything", []Finding{
			client(PatternTokenWebStorage),
			server(PatternServerJWTUsage), server(PatternServerJWTUsage), server(PatternServerJWTUsage),
			client(PatternJWTLibraryImport),
			server(PatternCORSCredentials),
			client(PatternBearerString),
		}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskScore(tt.findings))
		})
	}
}

func TestRiskScore_Monotonic(t *testing.T) {
	all := []Finding{
		{Type: SideClient, Pattern: PatternBearerString},
		{Type: SideServer, Pattern: PatternServerJWTUsage},
		{Type: SideClient, Pattern: PatternTokenWebStorage},
		{Type: SideServer, Pattern: PatternServerJWTUsage},
		{Type: SideClient, Pattern: PatternJWTLibraryImport},
		{Type: SideServer, Pattern: PatternServerJWTUsage},
		{Type: SideServer, Pattern: PatternCORSCredentials},
		{Type: SideClient, Pattern: PatternTokenStorage},
	}

	prev := 0
	for i := range all {
		score := RiskScore(all[:i+1])
		assert.GreaterOrEqual(t, score, prev)
		assert.LessOrEqual(t, score, MaxRiskScore)
		prev = score
	}
}

func TestRecommendations(t *testing.T) {
	base := []string{
		"Set secure cookie attributes: HttpOnly, Secure, SameSite=Lax or Strict",
		"Implement server-side session store with proper logout invalidation",
		"Add security headers: X-Frame-Options, CSP, X-Content-Type-Options",
	}
	assert.Equal(t, base, Recommendations(nil))

	recs := Recommendations([]Finding{
		{Type: SideClient, Pattern: PatternBearerString},
		{Type: SideServer, Pattern: PatternServerJWTUsage},
		{Type: SideServer, Pattern: PatternCORSCredentials},
	})
	require.Len(t, recs, 9)
	assert.Equal(t, "Migrate browser authentication from JWT to HTTP-only session cookies", recs[0])
	assert.Equal(t, "Implement session middleware for browser routes; restrict JWT to API integrations", recs[3])
	assert.Equal(t, base, recs[5:8])
	assert.Equal(t, "Review CORS configuration - ensure credentials are only allowed for trusted origins", recs[8])
}

func auditFixture(t *testing.T) string {
	return writeProject(t, map[string]string{
		"front-end/src/auth/session.ts": `
			export const save = (t: string) => localStorage.setItem('access_token', t);
		`,
		"front-end/src/pages/Home.tsx": `
			export default function Home() {
			  return <div>home</div>;
			}
		`,
		"front-end/node_modules/jose/index.js": `
			export const jwtVerify = () => {};
		`,
		"server/src/middleware/auth.ts": `
			import jwt from 'jsonwebtoken';
			export const check = (t) => jwt.verify(t, 'secret');
		`,
		"server/dist/bundle.min.js": `
			jwt.verify(a, b);
		`,
		"docs/notes.ts": `
			localStorage.getItem('token');
		`,
	})
}

func TestAudit(t *testing.T) {
	root := auditFixture(t)
	rec := logger.NewRecorder()

	result, err := New(WithLogger(rec)).Audit(Options{ProjectRoot: root})
	require.NoError(t, err)

	// session.ts, Home.tsx and middleware/auth.ts; ignored and unmatched
	// paths are never read.
	assert.Equal(t, 3, result.Summary.FilesScanned)
	assert.Equal(t, len(result.Findings), result.Summary.JWTFindings)
	assert.Equal(t, result.Summary.JWTFindings, result.Summary.ClientFindings+result.Summary.ServerFindings)

	session := result.FindingsForFile("front-end/src/auth/session.ts")
	assert.Contains(t, patterns(session), PatternTokenWebStorage)
	assert.Empty(t, result.FindingsForFile("front-end/src/pages/Home.tsx"))
	assert.NotEmpty(t, result.FindingsForFile("server/src/middleware/auth.ts"))
	assert.Empty(t, result.FindingsForFile("docs/notes.ts"))

	assert.GreaterOrEqual(t, result.Summary.RiskScore, 3)
	assert.Contains(t, result.RecommendedActions, "Remove all token storage from localStorage/sessionStorage")
	assert.Contains(t, rec.Messages(logger.LevelInfo), "Auth audit completed")
}

func TestAudit_RepeatedRunsDoNotAccumulate(t *testing.T) {
	root := auditFixture(t)
	a := New()

	first, err := a.Audit(Options{ProjectRoot: root})
	require.NoError(t, err)
	second, err := a.Audit(Options{ProjectRoot: root})
	require.NoError(t, err)

	assert.Equal(t, first.Findings, second.Findings)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestAudit_Scope(t *testing.T) {
	root := auditFixture(t)

	serverOnly, err := New().Audit(Options{ProjectRoot: root, SkipFrontend: true})
	require.NoError(t, err)
	assert.Equal(t, 1, serverOnly.Summary.FilesScanned)
	assert.Zero(t, serverOnly.Summary.ClientFindings)

	frontendOnly, err := New().Audit(Options{ProjectRoot: root, SkipServer: true})
	require.NoError(t, err)
	assert.Equal(t, 2, frontendOnly.Summary.FilesScanned)
	assert.Zero(t, frontendOnly.Summary.ServerFindings)

	nothing, err := New().Audit(Options{ProjectRoot: root, SkipServer: true, SkipFrontend: true})
	require.NoError(t, err)
	assert.Zero(t, nothing.Summary.FilesScanned)
	assert.Empty(t, nothing.Findings)
	assert.Len(t, nothing.RecommendedActions, 3)
}

func TestAudit_MissingRoot(t *testing.T) {
	_, err := New().Audit(Options{ProjectRoot: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
