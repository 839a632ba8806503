package state

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/crmarques/bloxsync/config"
	"github.com/crmarques/bloxsync/debugctx"
	"github.com/crmarques/bloxsync/internal/cli/common"
	"github.com/crmarques/bloxsync/resource"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "state",
		Short: "Manage the lock ledger",
		Args:  cobra.NoArgs,
	}

	command.AddCommand(newPruneCommand(deps, globalFlags))

	return command
}

type pruneView struct {
	DryRun  bool      `json:"dry_run" yaml:"dry-run"`
	Removed []refView `json:"removed" yaml:"removed"`
}

type refView struct {
	Kind string `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
}

func newPruneCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var dryRun bool
	var yes bool

	command := &cobra.Command{
		Use:   "prune",
		Short: "Remove lock entries no longer declared in the configuration",
		Example: "  bloxsync state prune --dry-run\n" +
			"  bloxsync state prune --yes",
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			project, err := common.RequireProject(deps)
			if err != nil {
				return err
			}
			store, err := common.RequireStore(deps)
			if err != nil {
				return err
			}

			// Prune mutates memory only; nothing reaches disk until Persist.
			removed := store.Prune(declaredNames(project))
			debugctx.Printf(command.Context(), "prune candidates=%d dry_run=%t", len(removed), dryRun)

			if len(removed) == 0 {
				return common.WriteText(command, globalFlags.Output, "the lock ledger already matches the configuration")
			}

			value := pruneView{DryRun: dryRun, Removed: make([]refView, 0, len(removed))}
			for _, ref := range removed {
				value.Removed = append(value.Removed, refView{Kind: ref.Kind.String(), Name: ref.Name})
			}

			if dryRun {
				return common.WriteOutput(command, globalFlags.Output, value, renderPruneText)
			}

			if !yes && common.IsInteractiveTerminal(command) {
				confirmed, err := common.PromptConfirm(
					command,
					fmt.Sprintf("Remove %d stale lock entries?", len(removed)),
					false,
				)
				if err != nil {
					return err
				}
				if !confirmed {
					return common.WriteText(command, globalFlags.Output, "prune canceled")
				}
			}

			if err := store.Persist(command.Context()); err != nil {
				return err
			}

			return common.WriteOutput(command, globalFlags.Output, value, renderPruneText)
		},
	}

	command.Flags().BoolVar(&dryRun, "dry-run", false, "list stale entries without removing them")
	command.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return command
}

func declaredNames(project *config.Project) map[resource.Kind][]string {
	keep := map[resource.Kind][]string{}
	for _, entry := range project.GamePasses {
		keep[resource.GamePass] = append(keep[resource.GamePass], entry.Name)
	}
	for _, entry := range project.DeveloperProducts {
		keep[resource.DeveloperProduct] = append(keep[resource.DeveloperProduct], entry.Name)
	}
	for _, entry := range project.Badges {
		keep[resource.Badge] = append(keep[resource.Badge], entry.Name)
	}
	return keep
}

func renderPruneText(w io.Writer, value pruneView) error {
	table := common.NewTable(w, []string{"KIND", "NAME"})
	for _, ref := range value.Removed {
		table.Append([]string{ref.Kind, ref.Name})
	}
	table.Render()

	verb := "removed"
	if value.DryRun {
		verb = "would remove"
	}
	_, err := fmt.Fprintf(w, "%s %d lock entries\n", verb, len(value.Removed))
	return err
}
