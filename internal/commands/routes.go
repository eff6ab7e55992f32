package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/tracer"
)

// RoutesCmd creates the routes command.
func RoutesCmd() *cobra.Command {
	var root, router, menus string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List every route with the menus that point at it",
		Long: `Prints the router's routes, the menu entries serving each one and the
menu entries no route serves.

Examples:
  heron routes
  heron routes --menus "src/**/*Menu*.ts" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			feRoot := root
			if feRoot == "" {
				feRoot = filepath.Join(env.cfg.Project.Root, env.cfg.Project.Frontend)
			}

			tr := tracer.New(feRoot, tracer.WithLogger(env.log))
			rm, err := tr.BuildRouteMap(tracer.RouteMapOptions{
				RouterPath: firstNonEmpty(router, env.cfg.Trace.Router),
				MenuGlob:   firstNonEmpty(menus, env.cfg.Trace.MenuGlob),
			})
			if err != nil {
				return err
			}

			if env.json {
				return writeJSON(env.out, rm)
			}
			printRouteMap(feRoot, rm)
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Frontend root (default: project.root/project.frontend)")
	cmd.Flags().StringVar(&router, "router", "", "Router file, relative to the frontend root")
	cmd.Flags().StringVar(&menus, "menus", "", "Doublestar glob selecting menu files")

	return cmd
}

func printRouteMap(feRoot string, rm *tracer.RouteMap) {
	output.Heading("Routes in " + relTo(feRoot, rm.RouterPath))

	for _, e := range rm.Entries {
		component := firstNonEmpty(e.Route.ComponentName, e.Route.Element, "?")
		line := fmt.Sprintf("%-40s %s", e.Route.URLPattern, component)
		if e.Route.Lazy != "" {
			line += " (lazy)"
		}

		if e.Status == tracer.StatusDefinitive {
			labels := make([]string, 0, len(e.Menus))
			for _, m := range e.Menus {
				labels = append(labels, m.Label)
			}
			output.Success(line + "  ← " + strings.Join(labels, ", "))
		} else {
			output.Plain("   " + line)
		}

		if e.Route.FilePath != "" {
			output.Verbose(relTo(feRoot, e.Route.FilePath))
		}
	}

	if len(rm.OrphanMenus) > 0 {
		output.Plain("")
		output.Warn(fmt.Sprintf("%d menu entries point at no route:", len(rm.OrphanMenus)))
		for _, m := range rm.OrphanMenus {
			output.Step(fmt.Sprintf("%s → %s  (%s)", m.Label, m.Path, m.File))
		}
	}

	output.Plain("")
	output.Info(fmt.Sprintf("%d routes, %d menu entries, %d sections", len(rm.Routes), len(rm.Menus), len(rm.Sections)))
}
