package sync

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
	var yes bool

	command := &cobra.Command{
		Use:   "sync",
		Short: "Apply the declared configuration to the universe",
		Example: "  bloxsync sync --dry-run\n" +
			"  bloxsync sync --yes",
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

			if !dryRun && !yes && common.IsInteractiveTerminal(command) {
				confirmed, err := common.PromptConfirm(
					command,
					fmt.Sprintf("Apply declared configuration to universe %d?", project.Universe.ID),
					true,
				)
				if err != nil {
					return err
				}
				if !confirmed {
					return common.WriteText(command, globalFlags.Output, "sync canceled")
				}
			}

			debugctx.Printf(command.Context(), "sync start universe=%d dry_run=%t", project.Universe.ID, dryRun)

			report, err := reconciler.Sync(command.Context(), reconcile.Options{DryRun: dryRun})
			if err != nil {
				return err
			}

			view := common.NewReportView(report)
			if err := common.WriteOutput(command, globalFlags.Output, view, common.RenderReportText); err != nil {
				return err
			}

			recordHistory(command, deps, globalFlags, report, dryRun)

			if report.HasFailures() {
				return reportError(report)
			}
			return nil
		},
	}

	command.Flags().BoolVar(&dryRun, "dry-run", false, "plan actions without applying them")
	command.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return command
}

// recordHistory commits the lock file after an applied run. A failed commit
// must not eat a successful sync, so it surfaces as a warning only.
func recordHistory(command *cobra.Command, deps common.CommandDependencies, globalFlags *common.GlobalFlags, report reconcile.Report, dryRun bool) {
	if dryRun || deps.Recorder == nil {
		return
	}

	committed, err := deps.Recorder.Record(command.Context(), "bloxsync sync: "+report.Summary())
	if err != nil {
		_, _ = fmt.Fprintf(command.ErrOrStderr(), "warning: history commit failed: %v\n", err)
		return
	}
	if committed && common.IsVerbose(globalFlags) {
		_, _ = fmt.Fprintln(command.ErrOrStderr(), "history: lock file committed")
	}
}

// reportError carries the first failure's category so the exit code reflects
// the underlying cause rather than a generic internal error.
func reportError(report reconcile.Report) error {
	failures := report.Failures()
	category := faults.InternalError
	var typedErr *faults.TypedError
	if errors.As(failures[0].Err, &typedErr) {
		category = typedErr.Category
	}

	return faults.NewTypedError(
		category,
		fmt.Sprintf("%d of %d actions failed", len(failures), len(report.Actions)),
		failures[0].Err,
	)
}
