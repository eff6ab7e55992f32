package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/depgraph"
	"github.com/simonhull/firebird-suite/heron/pkg/tracer"
)

type traceFlags struct {
	root     string
	router   string
	menus    string
	noFollow bool
	watch    bool
}

// TraceCmd creates the trace command.
func TraceCmd() *cobra.Command {
	var flags traceFlags

	cmd := &cobra.Command{
		Use:   "trace <url>",
		Short: "Find the component that renders a URL",
		Long: `Matches a URL against the router, checks it against the menu
configuration and lists the component's imports.

Examples:
  heron trace /apps/records/46
  heron trace /apps/records --router src/app/Router.tsx
  heron trace /settings --json
  heron trace /dashboard --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.root, "root", "", "Frontend root (default: project.root/project.frontend)")
	cmd.Flags().StringVar(&flags.router, "router", "", "Router file, relative to the frontend root")
	cmd.Flags().StringVar(&flags.menus, "menus", "", "Doublestar glob selecting menu files")
	cmd.Flags().BoolVar(&flags.noFollow, "no-follow", false, "Do not walk the component's imports")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Re-run the trace when source files change")

	return cmd
}

func runTrace(cmd *cobra.Command, url string, flags traceFlags) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	feRoot := flags.root
	if feRoot == "" {
		feRoot = filepath.Join(env.cfg.Project.Root, env.cfg.Project.Frontend)
	}

	opts := tracer.TraceOptions{
		RouterPath:    firstNonEmpty(flags.router, env.cfg.Trace.Router),
		MenuGlob:      firstNonEmpty(flags.menus, env.cfg.Trace.MenuGlob),
		FollowImports: env.cfg.Trace.FollowImports && !flags.noFollow,
	}

	tr := tracer.New(feRoot,
		tracer.WithLogger(env.log),
		tracer.WithMaxDepth(env.cfg.Trace.MaxDepth),
	)

	once := func() error {
		art, err := tr.TraceURL(url, opts)
		if err != nil {
			return err
		}
		if env.json {
			return writeJSON(env.out, art)
		}
		return printTrace(env.out, feRoot, art)
	}

	if !flags.watch {
		return once()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	output.Info(fmt.Sprintf("Watching %s (Ctrl+C to stop)", feRoot))
	return watch(ctx, feRoot, env.log, func() {
		if err := once(); err != nil {
			output.Error(err.Error())
		}
	})
}

func printTrace(w io.Writer, feRoot string, art *tracer.TraceArtifacts) error {
	output.Heading("Trace: " + art.QueriedURL)

	switch art.Truth {
	case tracer.StatusDefinitive:
		output.Success("Router and menus agree")
	case tracer.StatusRouterOnly:
		output.Warn("Served by the router, no menu entry")
	case tracer.StatusConflict:
		output.Warn("Router and menus disagree")
	default:
		output.Error("No route matches")
	}

	if art.RouteMatch != nil {
		output.Plain(fmt.Sprintf("Route:     %s (specificity %d)", art.RouteMatch.Pattern, art.RouteMatch.Specificity))
	}
	if art.Router != nil {
		output.Plain("Component: " + firstNonEmpty(art.Router.ComponentName, "(unknown)"))
		if art.Router.FilePath != "" {
			output.Plain("File:      " + relTo(feRoot, art.Router.FilePath))
		} else if art.Router.ImportPath != "" {
			output.Plain("Import:    " + art.Router.ImportPath + " (unresolved)")
		}
	}

	if len(art.DynamicParams) > 0 {
		names := make([]string, 0, len(art.DynamicParams))
		for name := range art.DynamicParams {
			names = append(names, name)
		}
		sort.Strings(names)

		output.Plain("Params:")
		for _, name := range names {
			output.Step(fmt.Sprintf("%s = %s", name, art.DynamicParams[name]))
		}
	}

	if len(art.Menus) > 0 {
		output.Plain("Menus:")
		for _, m := range art.Menus {
			line := fmt.Sprintf("%s → %s", m.Label, m.Path)
			if m.File != "" {
				line += "  (" + m.File + ")"
			}
			output.Step(line)
		}
	}

	for _, c := range art.Conflicts {
		output.Warn(c)
	}
	for _, warning := range art.Warnings {
		output.Verbose(warning)
	}

	if len(art.Dependencies) > 0 {
		output.Plain("Dependencies:")
		if err := printDependencyTree(w, relTo(feRoot, art.Router.FilePath), art.Dependencies); err != nil {
			return err
		}
	}

	output.Verbose(fmt.Sprintf("Traced in %dms", art.Metadata.ProcessingTimeMs))
	return nil
}

// printDependencyTree renders the walk as a tree rooted at the component
// file. Each resolved file appears once, under the file that first imported
// it.
func printDependencyTree(w io.Writer, rootFile string, deps []depgraph.Node) error {
	root := gtree.NewRoot(rootFile)
	nodes := map[string]*gtree.Node{rootFile: root}

	for _, dep := range deps {
		parent, ok := nodes[dep.From]
		if !ok {
			parent = root
		}

		label := fmt.Sprintf("%s [%s]", dep.File, dep.Kind)
		if !dep.Resolved {
			label = fmt.Sprintf("%s [%s, external]", dep.File, dep.Kind)
		}

		child := parent.Add(label)
		if dep.Resolved {
			nodes[dep.File] = child
		}
	}

	if err := gtree.OutputFromRoot(w, root); err != nil {
		return fmt.Errorf("rendering dependency tree: %w", err)
	}
	return nil
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
