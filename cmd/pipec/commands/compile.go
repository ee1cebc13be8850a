package commands

import (
	"fmt"
	"strings"

	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/app"
	"github.com/Cloud-Pipelines/pipeline-editor-sub000/internal/core/domain"
	"github.com/spf13/cobra"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <component.yaml>",
		Short: "Compile a pipeline component into a target document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			targetName, _ := flags.GetString("target")
			formatName, _ := flags.GetString("format")
			arguments, _ := flags.GetStringToString("arg")
			argsFile, _ := flags.GetString("args-file")
			output, _ := flags.GetString("output")
			outputDir, _ := flags.GetString("output-directory")
			name, _ := flags.GetString("name")
			watch, _ := flags.GetBool("watch")

			target, err := domain.ParseTarget(targetName)
			if err != nil {
				return err
			}
			format, err := domain.ParseFormat(formatName)
			if err != nil {
				return err
			}

			opts := app.CompileOptions{
				Path:            args[0],
				Target:          target,
				Arguments:       arguments,
				ArgumentsFile:   argsFile,
				Output:          output,
				Format:          format,
				OutputDirectory: outputDir,
				Name:            name,
			}
			if watch {
				return c.app.Watch(cmd.Context(), opts)
			}
			return c.app.Compile(cmd.Context(), opts)
		},
	}

	targets := make([]string, 0, len(domain.Targets()))
	for _, t := range domain.Targets() {
		targets = append(targets, string(t))
	}

	cmd.Flags().StringP("target", "t", string(domain.TargetArgo),
		fmt.Sprintf("Compilation target (%s)", strings.Join(targets, "|")))
	cmd.Flags().StringToStringP("arg", "a", nil, "Pipeline argument as name=value (repeatable)")
	cmd.Flags().String("args-file", "", "YAML file mapping pipeline argument names to values")
	cmd.Flags().StringP("output", "o", domain.StdoutPath, "Output path, - for stdout, or s3://bucket/key")
	cmd.Flags().String("format", string(domain.FormatYAML), "Output format (yaml|json)")
	cmd.Flags().String("output-directory", "", "Cloud storage root for pipeline outputs (vertex)")
	cmd.Flags().String("name", "", "Override the pipeline name")
	cmd.Flags().BoolP("watch", "w", false, "Recompile whenever the component's directory changes")
	return cmd
}
