package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crmarques/bloxsync/credentials"
	"github.com/crmarques/bloxsync/faults"
)

const bootstrapProjectYAML = `
universe:
  id: 6097556
  name: Orb Collector
history:
  enabled: true
`

func writeBootstrapProject(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bloxsync.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write project file: %v", err)
	}
	return path
}

func TestNewBloxsyncContextWithAPIKey(t *testing.T) {
	t.Setenv(credentials.APIKeyEnvVar, "open-cloud-key")
	t.Setenv(credentials.CookieEnvVar, "")
	t.Setenv(credentials.PassphraseEnvVar, "")

	path := writeBootstrapProject(t, bootstrapProjectYAML)
	workspace, err := NewBloxsyncContext(BootstrapConfig{ConfigPath: path})
	if err != nil {
		t.Fatalf("NewBloxsyncContext returned error: %v", err)
	}

	if workspace.Project.Universe.ID != 6097556 {
		t.Fatalf("unexpected universe id: %d", workspace.Project.Universe.ID)
	}
	if workspace.Store == nil {
		t.Fatal("expected a lock store")
	}
	if workspace.Gateway == nil || workspace.Pipeline == nil {
		t.Fatal("expected gateway and pipeline with an api key present")
	}
	if workspace.Reconciler == nil || workspace.Exporter == nil {
		t.Fatal("expected reconciler and exporter with an api key present")
	}
	if workspace.Recorder == nil {
		t.Fatal("expected a history recorder for an enabled history block")
	}
	if workspace.Credentials.APIKeySource != credentials.SourceEnv {
		t.Fatalf("expected the api key resolved from env, got %q", workspace.Credentials.APIKeySource)
	}
	if workspace.Credentials.CookieSource != credentials.SourceNone {
		t.Fatalf("expected no cookie, got %q", workspace.Credentials.CookieSource)
	}
}

func TestNewBloxsyncContextWithoutAPIKeyLeavesGatewayNil(t *testing.T) {
	t.Setenv(credentials.APIKeyEnvVar, "")
	t.Setenv(credentials.CookieEnvVar, "")
	t.Setenv(credentials.PassphraseEnvVar, "")

	path := writeBootstrapProject(t, `
universe:
  id: 11
`)
	workspace, err := NewBloxsyncContext(BootstrapConfig{ConfigPath: path})
	if err != nil {
		t.Fatalf("NewBloxsyncContext returned error: %v", err)
	}

	if workspace.Gateway != nil || workspace.Reconciler != nil || workspace.Exporter != nil {
		t.Fatal("gateway-backed dependencies must stay nil without an api key")
	}
	if workspace.Store == nil {
		t.Fatal("the lock store does not depend on credentials")
	}
	if workspace.Recorder != nil {
		t.Fatal("expected no recorder when history is disabled")
	}
}

func TestNewBloxsyncContextMissingProjectIsNotFound(t *testing.T) {
	t.Setenv(credentials.APIKeyEnvVar, "")
	t.Setenv(credentials.PassphraseEnvVar, "")

	_, err := NewBloxsyncContext(BootstrapConfig{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	if !faults.IsCategory(err, faults.NotFoundError) {
		t.Fatalf("expected NotFoundError, got: %v", err)
	}
}

func TestResolveCredentialsIgnoresAbsentStore(t *testing.T) {
	t.Setenv(credentials.APIKeyEnvVar, "")
	t.Setenv(credentials.CookieEnvVar, "")
	t.Setenv(credentials.PassphraseEnvVar, "battery staple")
	t.Setenv("HOME", t.TempDir())

	path := writeBootstrapProject(t, `
universe:
  id: 11
`)
	workspace, err := NewBloxsyncContext(BootstrapConfig{ConfigPath: path})
	if err != nil {
		t.Fatalf("NewBloxsyncContext returned error: %v", err)
	}
	if workspace.Credentials.APIKeySource != credentials.SourceNone {
		t.Fatalf("expected no api key, got %q", workspace.Credentials.APIKeySource)
	}
}

func TestDefaultCredentialStorePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := DefaultCredentialStorePath()
	if err != nil {
		t.Fatalf("DefaultCredentialStorePath returned error: %v", err)
	}
	if path != filepath.Join(home, ".bloxsync", "credentials.yaml") {
		t.Fatalf("unexpected store path %q", path)
	}
}

func TestNewRunIDIsUnique(t *testing.T) {
	t.Parallel()

	if NewRunID() == NewRunID() {
		t.Fatal("expected distinct run ids")
	}
}
