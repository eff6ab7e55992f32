package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/auth"
)

// ErrRiskTooHigh is returned by audit when --max-risk is exceeded.
var ErrRiskTooHigh = errors.New("auth risk score above threshold")

type auditFlags struct {
	root         string
	skipServer   bool
	skipFrontend bool
	maxRisk      int
}

// AuditCmd creates the audit command.
func AuditCmd() *cobra.Command {
	var flags auditFlags

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit browser and server code for token-based auth",
		Long: `Scans frontend and server sources for JWTs handled in the browser,
tokens in web storage and bearer headers, then scores the project from
0 (sessions only) to 10.

Examples:
  heron audit
  heron audit --skip-server
  heron audit --max-risk 3   # fail CI above 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.root, "root", "", "Project root (default: project.root)")
	cmd.Flags().BoolVar(&flags.skipServer, "skip-server", false, "Do not scan server code")
	cmd.Flags().BoolVar(&flags.skipFrontend, "skip-frontend", false, "Do not scan frontend code")
	cmd.Flags().IntVar(&flags.maxRisk, "max-risk", -1, "Exit with an error when the risk score is above this value")

	return cmd
}

func runAudit(cmd *cobra.Command, flags auditFlags) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	opts := auth.Options{
		ProjectRoot:  firstNonEmpty(flags.root, env.cfg.Project.Root),
		SkipServer:   flags.skipServer || !env.cfg.Audit.IncludeServer,
		SkipFrontend: flags.skipFrontend || !env.cfg.Audit.IncludeFrontend,
	}

	result, err := auth.New(auth.WithLogger(env.log)).Audit(opts)
	if err != nil {
		return err
	}

	if env.json {
		if err := writeJSON(env.out, result); err != nil {
			return err
		}
	} else {
		printAudit(result)
	}

	if flags.maxRisk >= 0 && result.Summary.RiskScore > flags.maxRisk {
		return fmt.Errorf("%w: %d > %d", ErrRiskTooHigh, result.Summary.RiskScore, flags.maxRisk)
	}
	return nil
}

func printAudit(result *auth.Result) {
	s := result.Summary
	output.Heading("Auth audit")
	output.Plain(fmt.Sprintf("Files scanned: %d", s.FilesScanned))
	output.Plain(fmt.Sprintf("Findings:      %d (%d client, %d server)", s.JWTFindings, s.ClientFindings, s.ServerFindings))

	score := fmt.Sprintf("Risk score:    %d/%d", s.RiskScore, auth.MaxRiskScore)
	switch {
	case s.RiskScore >= 6:
		output.Error(score)
	case s.RiskScore >= 3:
		output.Warn(score)
	default:
		output.Success(score)
	}

	seen := make(map[string]bool)
	for _, finding := range result.Findings {
		if seen[finding.File] {
			continue
		}
		seen[finding.File] = true

		output.Plain("")
		output.Plain(finding.File)
		for _, f := range result.FindingsForFile(finding.File) {
			msg := fmt.Sprintf("%d [%s/%s] %s", f.Line, f.Type, f.Risk, f.Why)
			if f.Risk == auth.RiskHigh {
				output.Warn(msg)
			} else {
				output.Step(msg)
			}
			output.Verbose(f.Code)
			output.Verbose(f.Hint)
		}
	}

	output.Plain("")
	output.Heading("Recommended actions")
	for i, action := range result.RecommendedActions {
		output.Plain(fmt.Sprintf("%d. %s", i+1, action))
	}
}
