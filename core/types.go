package core

import (
	"github.com/crmarques/bloxsync/assets"
	"github.com/crmarques/bloxsync/config"
	"github.com/crmarques/bloxsync/credentials"
	"github.com/crmarques/bloxsync/export"
	"github.com/crmarques/bloxsync/history"
	"github.com/crmarques/bloxsync/reconcile"
	"github.com/crmarques/bloxsync/remote"
	"github.com/crmarques/bloxsync/state"
)

// BloxsyncContext is the assembled workspace for one invocation: the loaded
// project, the resolved credentials, and every provider wired on top of them.
// Gateway-backed fields stay nil when no API key was resolved; commands that
// need them surface the auth failure instead of the bootstrap.
type BloxsyncContext struct {
	Project     config.Project
	Credentials credentials.Resolution
	Store       state.Store
	Gateway     remote.Gateway
	Pipeline    assets.Pipeline
	Reconciler  reconcile.Reconciler
	Exporter    export.Exporter
	Recorder    history.Recorder
}

type BootstrapConfig struct {
	// ConfigPath overrides the project file location. Empty means
	// ./bloxsync.yaml.
	ConfigPath string
}
