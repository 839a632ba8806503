package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/crmarques/bloxsync/config"
	"github.com/crmarques/bloxsync/credentials"
	"github.com/crmarques/bloxsync/export"
	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/history"
	"github.com/crmarques/bloxsync/internal/providers/assets/polling"
	credfile "github.com/crmarques/bloxsync/internal/providers/credentials/file"
	githistory "github.com/crmarques/bloxsync/internal/providers/history/git"
	"github.com/crmarques/bloxsync/internal/providers/remote/roblox"
	statefile "github.com/crmarques/bloxsync/internal/providers/state/file"
	"github.com/crmarques/bloxsync/reconcile"
)

const credentialStoreDirName = ".bloxsync"

// AutoloadEnv folds a .env file from the working directory into the process
// environment. Already-set variables win, and a missing file is fine.
func AutoloadEnv() {
	_ = godotenv.Load()
}

// NewRunID mints the identifier that tags all debug output of one invocation.
func NewRunID() string {
	return uuid.NewString()
}

// NewBloxsyncContext loads the project, resolves credentials, opens the lock
// store, and wires the providers on top. It never prompts: credentials come
// from the environment, optionally completed from the encrypted store when
// the passphrase is exported too.
func NewBloxsyncContext(opts BootstrapConfig) (BloxsyncContext, error) {
	ctx := context.Background()

	project, err := config.Load(opts.ConfigPath)
	if err != nil {
		return BloxsyncContext{}, err
	}

	resolution, err := resolveCredentials(ctx)
	if err != nil {
		return BloxsyncContext{}, err
	}

	store, err := statefile.Load(project.LockPath())
	if err != nil {
		return BloxsyncContext{}, err
	}

	workspace := BloxsyncContext{
		Project:     project,
		Credentials: resolution,
		Store:       store,
	}

	if workspace.Recorder, err = openRecorderForProject(project); err != nil {
		return BloxsyncContext{}, err
	}

	if resolution.Credentials.APIKey == "" {
		return workspace, nil
	}

	gatewayOptions := []roblox.GatewayOption{
		roblox.WithCookie(resolution.Credentials.Cookie),
	}
	if project.Creator != nil {
		gatewayOptions = append(gatewayOptions, roblox.WithCreator(project.Creator.ID, project.Creator.Type))
	}
	gateway, err := roblox.NewOpenCloudGateway(resolution.Credentials.APIKey, project.Universe.ID, gatewayOptions...)
	if err != nil {
		return BloxsyncContext{}, err
	}
	workspace.Gateway = gateway

	pipeline, err := polling.NewPipeline(gateway)
	if err != nil {
		return BloxsyncContext{}, err
	}
	workspace.Pipeline = pipeline

	reconciler, err := reconcile.NewDefaultReconciler(
		project,
		gateway,
		store,
		pipeline,
		reconcile.WithUniverseCookie(resolution.Credentials.Cookie != ""),
	)
	if err != nil {
		return BloxsyncContext{}, err
	}
	workspace.Reconciler = reconciler

	exporter, err := export.NewDefaultExporter(gateway, project.Universe.ID)
	if err != nil {
		return BloxsyncContext{}, err
	}
	workspace.Exporter = exporter

	return workspace, nil
}

// DefaultCredentialStorePath is ~/.bloxsync/credentials.yaml.
func DefaultCredentialStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", faults.NewTypedError(faults.InternalError, "cannot resolve the home directory for the credential store", err)
	}
	return filepath.Join(home, credentialStoreDirName, "credentials.yaml"), nil
}

// OpenCredentialStore opens the default store. An empty passphrase yields a
// handle that can check existence and clear but not read or write secrets.
func OpenCredentialStore(passphrase string) (credentials.Store, error) {
	path, err := DefaultCredentialStorePath()
	if err != nil {
		return nil, err
	}
	return credfile.NewCredentialStore(path, passphrase)
}

// OpenLockRecorder builds a history recorder for a project directory without
// requiring a loaded workspace; init uses it after scaffolding.
func OpenLockRecorder(projectDir string, settings config.History) (history.Recorder, error) {
	return githistory.NewLockRecorder(
		projectDir,
		config.DefaultLockFileName,
		githistory.WithAuthor(settings.AuthorName, settings.AuthorEmail),
	)
}

func resolveCredentials(ctx context.Context) (credentials.Resolution, error) {
	resolution := credentials.FromEnv()
	if resolution.Complete() {
		return resolution, nil
	}

	passphrase := strings.TrimSpace(os.Getenv(credentials.PassphraseEnvVar))
	if passphrase == "" {
		return resolution, nil
	}

	store, err := OpenCredentialStore(passphrase)
	if err != nil {
		return credentials.Resolution{}, err
	}
	if !store.Exists() {
		return resolution, nil
	}

	return resolution.MergeStore(ctx, store)
}

func openRecorderForProject(project config.Project) (history.Recorder, error) {
	if !project.History.Enabled {
		return nil, nil
	}
	return OpenLockRecorder(project.Root(), project.History)
}
