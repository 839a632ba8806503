package common

import (
	"github.com/crmarques/bloxsync/config"
	"github.com/crmarques/bloxsync/credentials"
	"github.com/crmarques/bloxsync/export"
	"github.com/crmarques/bloxsync/history"
	"github.com/crmarques/bloxsync/reconcile"
	"github.com/crmarques/bloxsync/remote"
	"github.com/crmarques/bloxsync/state"
)

// CommandDependencies carries everything a command package may need. Fields
// backed by the workspace bootstrap are nil for commands that run without
// one; the Require helpers turn that nil into the right user-facing error.
type CommandDependencies struct {
	Project     *config.Project
	Credentials credentials.Resolution
	Store       state.Store
	Gateway     remote.Gateway
	Reconciler  reconcile.Reconciler
	Exporter    export.Exporter
	Recorder    history.Recorder

	// OpenCredentialStore opens the encrypted store; an empty passphrase is
	// enough for existence checks and clearing.
	OpenCredentialStore func(passphrase string) (credentials.Store, error)
	// OpenRecorder builds a history recorder for a directory that is not a
	// loaded workspace yet.
	OpenRecorder        func(projectDir string, settings config.History) (history.Recorder, error)
	CredentialStorePath string
	RunID               string
}

const missingAPIKeyMessage = "an Open Cloud API key is required: set " +
	credentials.APIKeyEnvVar + " or store one with \"bloxsync auth login\" and export " +
	credentials.PassphraseEnvVar

func RequireProject(deps CommandDependencies) (*config.Project, error) {
	if deps.Project == nil {
		return nil, ValidationError("no project configuration is loaded", nil)
	}
	return deps.Project, nil
}

func RequireStore(deps CommandDependencies) (state.Store, error) {
	if deps.Store == nil {
		return nil, ValidationError("the lock store is not loaded", nil)
	}
	return deps.Store, nil
}

func RequireGateway(deps CommandDependencies) (remote.Gateway, error) {
	if deps.Gateway == nil {
		return nil, AuthError(missingAPIKeyMessage, nil)
	}
	return deps.Gateway, nil
}

func RequireReconciler(deps CommandDependencies) (reconcile.Reconciler, error) {
	if deps.Reconciler == nil {
		return nil, AuthError(missingAPIKeyMessage, nil)
	}
	return deps.Reconciler, nil
}

func RequireExporter(deps CommandDependencies) (export.Exporter, error) {
	if deps.Exporter == nil {
		return nil, AuthError(missingAPIKeyMessage, nil)
	}
	return deps.Exporter, nil
}

func RequireCredentialStoreOpener(deps CommandDependencies) (func(string) (credentials.Store, error), error) {
	if deps.OpenCredentialStore == nil {
		return nil, ValidationError("the credential store is not configured", nil)
	}
	return deps.OpenCredentialStore, nil
}

func RequireRecorderOpener(deps CommandDependencies) (func(string, config.History) (history.Recorder, error), error) {
	if deps.OpenRecorder == nil {
		return nil, ValidationError("the history recorder is not configured", nil)
	}
	return deps.OpenRecorder, nil
}
