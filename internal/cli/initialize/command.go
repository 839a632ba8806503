// Package initialize scaffolds a new project file interactively.
package initialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/crmarques/bloxsync/config"
	"github.com/crmarques/bloxsync/debugctx"
	"github.com/crmarques/bloxsync/internal/cli/common"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var force bool

	command := &cobra.Command{
		Use:   "init",
		Short: "Create a bloxsync.yaml project file",
		Example: "  bloxsync init\n" +
			"  bloxsync init --force\n" +
			"  bloxsync init --config path/to/bloxsync.yaml",
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			path := globalFlags.ConfigPath
			if path == "" {
				path = config.DefaultConfigFileName
			}

			if _, err := os.Stat(path); err == nil && !force {
				return common.ConflictError(fmt.Sprintf("%s already exists; use --force to overwrite", path), nil)
			}

			if !common.IsInteractiveTerminal(command) {
				return common.ValidationError("interactive terminal is required; create "+config.DefaultConfigFileName+" by hand instead", nil)
			}

			project, err := promptProject(command)
			if err != nil {
				return err
			}

			encoded, err := yaml.Marshal(project)
			if err != nil {
				return common.ValidationError("failed to encode the project file", err)
			}
			if err := os.WriteFile(path, encoded, 0o644); err != nil {
				return common.ValidationError(fmt.Sprintf("cannot write %s", path), err)
			}

			assetsDir := filepath.Join(filepath.Dir(path), project.AssetsDir)
			if err := os.MkdirAll(assetsDir, 0o755); err != nil {
				return common.ValidationError(fmt.Sprintf("cannot create assets directory %q", assetsDir), err)
			}

			debugctx.Printf(command.Context(), "init wrote %q universe=%d history=%t", path, project.Universe.ID, project.History.Enabled)

			if err := common.WriteText(command, globalFlags.Output, fmt.Sprintf("created %s", path)); err != nil {
				return err
			}

			if project.History.Enabled {
				return offerHistoryInit(command, deps, globalFlags, filepath.Dir(path), project.History)
			}
			return nil
		},
	}

	command.Flags().BoolVar(&force, "force", false, "overwrite an existing project file")

	return command
}

func promptProject(command *cobra.Command) (config.Project, error) {
	universeID, err := promptID(command, "Universe ID")
	if err != nil {
		return config.Project{}, err
	}

	creatorType, err := common.PromptSelect(command, "Creator type (owns uploaded icons)", []string{config.CreatorUser, config.CreatorGroup})
	if err != nil {
		return config.Project{}, err
	}
	creatorID, err := promptID(command, "Creator ID")
	if err != nil {
		return config.Project{}, err
	}

	assetsDir, err := common.PromptInput(command, fmt.Sprintf("Assets directory (default %s)", config.DefaultAssetsDir), false)
	if err != nil {
		return config.Project{}, err
	}
	if assetsDir == "" {
		assetsDir = config.DefaultAssetsDir
	}

	historyEnabled, err := common.PromptConfirm(command, "Track lock history in git?", false)
	if err != nil {
		return config.Project{}, err
	}

	return config.Project{
		AssetsDir: assetsDir,
		Creator:   &config.Creator{ID: creatorID, Type: creatorType},
		Universe:  config.UniverseSettings{ID: universeID},
		History:   config.History{Enabled: historyEnabled},
	}, nil
}

func promptID(command *cobra.Command, prompt string) (int64, error) {
	raw, err := common.PromptInput(command, prompt, true)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ValidationError(fmt.Sprintf("%s must be a positive integer", prompt), nil)
	}
	return id, nil
}

func offerHistoryInit(command *cobra.Command, deps common.CommandDependencies, globalFlags *common.GlobalFlags, projectDir string, settings config.History) error {
	confirmed, err := common.PromptConfirm(command, "Initialize a git repository now?", true)
	if err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	openRecorder, err := common.RequireRecorderOpener(deps)
	if err != nil {
		return err
	}
	recorder, err := openRecorder(projectDir, settings)
	if err != nil {
		return err
	}
	if err := recorder.Init(command.Context()); err != nil {
		return err
	}

	return common.WriteText(command, globalFlags.Output, "initialized git repository for lock history")
}
