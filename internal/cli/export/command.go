package export

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crmarques/bloxsync/debugctx"
	exportdomain "github.com/crmarques/bloxsync/export"
	"github.com/crmarques/bloxsync/internal/cli/common"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var file string
	var luau bool
	var query string

	command := &cobra.Command{
		Use:   "export",
		Short: "Export the live remote configuration",
		Example: "  bloxsync export\n" +
			"  bloxsync export --file remote.yaml\n" +
			"  bloxsync export --luau\n" +
			"  bloxsync export --query '.[\"game-passes\"] | length' -o json",
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			exporter, err := common.RequireExporter(deps)
			if err != nil {
				return err
			}

			format, err := resolveFormat(luau, globalFlags.Output)
			if err != nil {
				return err
			}

			debugctx.Printf(command.Context(), "export format=%s query=%q file=%q", format, query, file)

			data, err := exporter.Export(command.Context(), exportdomain.Options{Format: format, Query: query})
			if err != nil {
				return err
			}

			if file != "" {
				if err := os.WriteFile(file, data, 0o644); err != nil {
					return common.ValidationError(fmt.Sprintf("cannot write export file %q", file), err)
				}
				_, err = fmt.Fprintf(command.OutOrStdout(), "exported live configuration to %s (%d bytes)\n", file, len(data))
				return err
			}

			_, err = command.OutOrStdout().Write(data)
			return err
		},
	}

	command.Flags().StringVarP(&file, "file", "f", "", "write the export to a file instead of stdout")
	command.Flags().BoolVar(&luau, "luau", false, "render a Luau module instead of yaml/json")
	command.Flags().StringVarP(&query, "query", "q", "", "jq expression applied to the exported document")

	return command
}

// resolveFormat maps --luau and the global output flag onto an export
// format. The document's text form is yaml, so text and auto mean yaml.
func resolveFormat(luau bool, output string) (exportdomain.Format, error) {
	if luau {
		switch output {
		case "", common.OutputAuto, common.OutputText:
			return exportdomain.FormatLuau, nil
		default:
			return "", common.ValidationError("--luau cannot be combined with --output "+output, nil)
		}
	}

	switch output {
	case "", common.OutputAuto, common.OutputText, common.OutputYAML:
		return exportdomain.FormatYAML, nil
	case common.OutputJSON:
		return exportdomain.FormatJSON, nil
	default:
		return "", common.ValidationError("invalid output format: use auto, text, json, or yaml", nil)
	}
}
