package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/heron/internal/filesystem"
	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/config"
)

// InitCmd creates the init command.
func InitCmd() *cobra.Command {
	var force bool
	var frontend string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a heron.yaml with default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if !filesystem.IsDir(dir) {
				return fmt.Errorf("%s is not a directory", dir)
			}

			path := filepath.Join(dir, config.FileName)
			if filesystem.IsFile(path) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			if frontend != "" {
				cfg.Project.Frontend = frontend
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			if err := config.SaveConfig(path, cfg); err != nil {
				return err
			}

			output.Success("Created " + path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing heron.yaml")
	cmd.Flags().StringVar(&frontend, "frontend", "", "Frontend directory, relative to the project root")

	return cmd
}
