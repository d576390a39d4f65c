package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jongio/bwenv/cliout"
	"github.com/jongio/bwenv/config"
)

func newInitCommand(f *flags, deps Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter .bwenv.yaml for the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := deps.Getwd()
			if err != nil {
				return err
			}
			cwd, _ = filepath.Abs(cwd)

			if err := config.WriteSample(f.configFile, config.Default(cwd)); err != nil {
				return err
			}
			if !cliout.IsJSON() {
				cliout.Success("Created %s", f.configFile)
			}
			return nil
		},
	}
}
