package publish

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crmarques/bloxsync/debugctx"
	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/internal/cli/common"
	"github.com/crmarques/bloxsync/reconcile"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var dryRun bool

	command := &cobra.Command{
		Use:   "publish",
		Short: "Upload configured place files as published versions",
		Example: "  bloxsync publish\n" +
			"  bloxsync publish --dry-run",
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			project, err := common.RequireProject(deps)
			if err != nil {
				return err
			}
			reconciler, err := common.RequireReconciler(deps)
			if err != nil {
				return err
			}

			debugctx.Printf(command.Context(), "publish start universe=%d places=%d dry_run=%t",
				project.Universe.ID, len(project.Places), dryRun)

			report, err := reconciler.PublishPlaces(command.Context(), reconcile.Options{DryRun: dryRun})
			if err != nil {
				return err
			}

			view := common.NewReportView(report)
			if err := common.WriteOutput(command, globalFlags.Output, view, common.RenderReportText); err != nil {
				return err
			}

			if report.HasFailures() {
				failures := report.Failures()
				category := faults.InternalError
				var typedErr *faults.TypedError
				if errors.As(failures[0].Err, &typedErr) {
					category = typedErr.Category
				}
				return faults.NewTypedError(
					category,
					fmt.Sprintf("%d of %d places failed to publish", len(failures), len(report.Actions)),
					failures[0].Err,
				)
			}
			return nil
		},
	}

	command.Flags().BoolVar(&dryRun, "dry-run", false, "check place files without uploading them")

	return command
}
