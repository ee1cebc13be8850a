package commands

import (
	"fmt"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/build"
	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pipec version %s\n", build.Version)
			if build.Commit != "none" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s built %s\n", build.Commit, build.Date)
			}
		},
	}
}
