package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jongio/bwenv/cliout"
)

// NewCommand creates the version command. The global --output flag selects
// JSON through cliout.
func NewCommand(info *Info) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("Display %s version information", info.Name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cliout.IsJSON() {
				return cliout.PrintJSON(info)
			}

			if quiet {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return nil
			}

			cliout.Header(fmt.Sprintf("%s Version", info.Name))
			cliout.Label("Version", info.Version)
			cliout.Label("Build Date", info.BuildDate)
			cliout.Label("Git Commit", info.GitCommit)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print version number")
	return cmd
}
