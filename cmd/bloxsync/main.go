package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/crmarques/bloxsync/core"
	"github.com/crmarques/bloxsync/internal/cli"
)

func main() {
	core.AutoloadEnv()

	args := os.Args[1:]
	deps := cli.Dependencies{
		OpenCredentialStore: core.OpenCredentialStore,
		OpenRecorder:        core.OpenLockRecorder,
		RunID:               core.NewRunID(),
	}
	if storePath, err := core.DefaultCredentialStorePath(); err == nil {
		deps.CredentialStorePath = storePath
	}

	if !shouldSkipWorkspaceBootstrap(args) {
		workspace, err := core.NewBloxsyncContext(core.BootstrapConfig{
			ConfigPath: configPathFromArgs(args),
		})
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(cli.ExitCodeForError(err))
		}

		deps.Project = &workspace.Project
		deps.Credentials = workspace.Credentials
		deps.Store = workspace.Store
		deps.Gateway = workspace.Gateway
		deps.Reconciler = workspace.Reconciler
		deps.Exporter = workspace.Exporter
		deps.Recorder = workspace.Recorder
	}

	if err := cli.Execute(deps); err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}

func configPathFromArgs(args []string) string {
	for idx := 0; idx < len(args); idx++ {
		current := args[idx]

		if current == "--config" || current == "-c" {
			if idx+1 < len(args) {
				return args[idx+1]
			}
			return ""
		}
		if strings.HasPrefix(current, "--config=") {
			return strings.TrimPrefix(current, "--config=")
		}
	}

	return ""
}

func isHelpInvocation(args []string) bool {
	if len(args) == 0 {
		return true
	}
	if args[0] == "help" {
		return true
	}

	for _, current := range args {
		if current == "--" {
			break
		}
		if current == "--help" || current == "-h" {
			return true
		}
	}

	return false
}

// Completion requests never need a loaded workspace: every completion here
// is static.
func isCompletionInvocation(args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "completion", "__complete", "__completeNoDesc":
		return true
	}
	return false
}

func shouldSkipWorkspaceBootstrap(args []string) bool {
	if isHelpInvocation(args) {
		return true
	}
	if isCompletionInvocation(args) {
		return true
	}

	commandPath, ok := resolveRunnableCommandPath(args)
	if !ok {
		return true
	}

	return !cli.RequiresWorkspacePath(commandPath)
}

func resolveRunnableCommandPath(args []string) (string, bool) {
	probe := cli.NewRootCommand(cli.Dependencies{})
	command, remainingArgs, err := probe.Find(args)
	if err != nil {
		return "", false
	}
	if command == nil {
		return "", false
	}
	if !command.Runnable() {
		return "", false
	}

	if err := command.ParseFlags(remainingArgs); err != nil {
		return "", false
	}
	if err := command.ValidateArgs(command.Flags().Args()); err != nil {
		return "", false
	}

	return strings.TrimSpace(command.CommandPath()), true
}
