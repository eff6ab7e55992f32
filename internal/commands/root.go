package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/heron"
	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/config"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
)

// RootCmd creates and returns the root command for the heron CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "heron",
		Short: "Route truth and auth audit for single-page applications",
		Long: `Heron reads a single-page application's source tree without running it.

It answers two questions:
• Which component really renders a URL, and do the router and menus agree?
• Does the browser handle auth tokens it should never see?`,
		Version:       heron.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
			output.SetWriter(cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to heron.yaml (default: ./heron.yaml when present)")
	cmd.PersistentFlags().Bool("json", false, "Print machine-readable JSON instead of styled text")

	return cmd
}

// Execute builds the full command tree and runs it.
func Execute() error {
	root := RootCmd()
	root.AddCommand(TraceCmd())
	root.AddCommand(RoutesCmd())
	root.AddCommand(AuditCmd())
	root.AddCommand(InitCmd())
	root.AddCommand(VersionCmd())

	if err := root.Execute(); err != nil {
		output.Error(err.Error())
		return err
	}
	return nil
}

// VersionCmd prints the heron version.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "heron v%s\n", heron.Version)
		},
	}
}

// runEnv is what every analysis command needs after flag parsing.
type runEnv struct {
	cfg  *config.Config
	log  logger.Logger
	json bool
	out  io.Writer
}

// loadEnv reads the global flags and the config they point at.
func loadEnv(cmd *cobra.Command) (*runEnv, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	asJSON, _ := flags.GetBool("json")
	verbose, _ := flags.GetBool("verbose")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel()
	if verbose {
		level = logger.LevelDebug
	}
	if asJSON && level < logger.LevelWarn {
		level = logger.LevelWarn
	}

	return &runEnv{
		cfg:  cfg,
		log:  logger.NewLogger(level, cmd.ErrOrStderr()),
		json: asJSON,
		out:  cmd.OutOrStdout(),
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
