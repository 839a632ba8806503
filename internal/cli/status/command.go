package status

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crmarques/bloxsync/config"
	"github.com/crmarques/bloxsync/internal/cli/common"
	"github.com/crmarques/bloxsync/resource"
	"github.com/crmarques/bloxsync/state"
)

type view struct {
	UniverseID     int64        `json:"universe_id" yaml:"universe-id"`
	LockFile       string       `json:"lock_file" yaml:"lock-file"`
	UniverseCached bool         `json:"universe_cached" yaml:"universe-cached"`
	Kinds          []kindStatus `json:"kinds" yaml:"kinds"`
	History        *gitStatus   `json:"history,omitempty" yaml:"history,omitempty"`
}

type kindStatus struct {
	Kind          string `json:"kind" yaml:"kind"`
	Declared      int    `json:"declared" yaml:"declared"`
	Locked        int    `json:"locked" yaml:"locked"`
	IconsRecorded int    `json:"icons_recorded" yaml:"icons-recorded"`
}

type gitStatus struct {
	Branch      string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Uncommitted bool   `json:"uncommitted" yaml:"uncommitted"`
	HasRemote   bool   `json:"has_remote" yaml:"has-remote"`
	Ahead       int    `json:"ahead" yaml:"ahead"`
	Behind      int    `json:"behind" yaml:"behind"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "status",
		Short: "Show the lock ledger and history state",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			project, err := common.RequireProject(deps)
			if err != nil {
				return err
			}
			store, err := common.RequireStore(deps)
			if err != nil {
				return err
			}

			value := view{
				UniverseID:     project.Universe.ID,
				LockFile:       project.LockPath(),
				UniverseCached: store.Universe() != nil,
				Kinds:          kindStatuses(project, store),
			}

			if deps.Recorder != nil {
				repoStatus, statusErr := deps.Recorder.Status(command.Context())
				if statusErr != nil {
					// History trouble is worth showing, not worth failing a
					// read-only command over.
					value.History = &gitStatus{Error: statusErr.Error()}
				} else {
					value.History = &gitStatus{
						Branch:      repoStatus.Branch,
						Uncommitted: repoStatus.HasUncommitted,
						HasRemote:   repoStatus.HasRemote,
						Ahead:       repoStatus.Ahead,
						Behind:      repoStatus.Behind,
					}
				}
			}

			return common.WriteOutput(command, globalFlags.Output, value, renderText)
		},
	}

	return command
}

func kindStatuses(project *config.Project, store state.Store) []kindStatus {
	declared := map[resource.Kind]int{
		resource.GamePass:         len(project.GamePasses),
		resource.DeveloperProduct: len(project.DeveloperProducts),
		resource.Badge:            len(project.Badges),
	}

	statuses := make([]kindStatus, 0, len(resource.NamedKinds()))
	for _, kind := range resource.NamedKinds() {
		entries := store.Entries(kind)
		icons := 0
		for _, entry := range entries {
			if entry.IconHash != "" {
				icons++
			}
		}
		statuses = append(statuses, kindStatus{
			Kind:          kind.String(),
			Declared:      declared[kind],
			Locked:        len(entries),
			IconsRecorded: icons,
		})
	}
	return statuses
}

func renderText(w io.Writer, value view) error {
	universeNote := "settings not yet applied"
	if value.UniverseCached {
		universeNote = "settings cached"
	}
	if _, err := fmt.Fprintf(w, "universe: %d (%s)\n", value.UniverseID, universeNote); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "lock: %s\n", value.LockFile); err != nil {
		return err
	}

	table := common.NewTable(w, []string{"KIND", "DECLARED", "LOCKED", "ICONS"})
	for _, item := range value.Kinds {
		table.Append([]string{
			item.Kind,
			strconv.Itoa(item.Declared),
			strconv.Itoa(item.Locked),
			strconv.Itoa(item.IconsRecorded),
		})
	}
	table.Render()

	if value.History == nil {
		return nil
	}
	if value.History.Error != "" {
		_, err := fmt.Fprintf(w, "history: %s\n", value.History.Error)
		return err
	}

	cleanliness := "clean"
	if value.History.Uncommitted {
		cleanliness = "uncommitted changes"
	}
	line := fmt.Sprintf("history: branch %s, %s", value.History.Branch, cleanliness)
	if value.History.HasRemote {
		line += fmt.Sprintf(", %d ahead, %d behind", value.History.Ahead, value.History.Behind)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
