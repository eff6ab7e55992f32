// Package auth audits a project for token-based browser authentication:
// JWT libraries in client bundles, tokens in web storage, Authorization
// headers built in the browser, and servers that accept bearer tokens.
//
// Files are classified as client or server code by their project-relative
// path. Each file gets a syntax-tree pass (when it parses) and a line-level
// pass; findings are kept once per file, line and pattern.
//
// Basic usage:
//
//	result, err := auth.New(auth.WithLogger(log)).Audit(auth.Options{ProjectRoot: "."})
//	if err != nil {
//		return err
//	}
//	fmt.Printf("risk %d/10\n", result.Summary.RiskScore)
package auth
