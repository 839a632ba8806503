package cli

import (
	"strings"
	"testing"

	"github.com/crmarques/bloxsync/credentials"
	"github.com/crmarques/bloxsync/faults"
)

func TestAuthLogoutClearsStoreWithoutPassphrase(t *testing.T) {
	t.Parallel()

	store := &testCredentialStore{exists: true, saved: &credentials.Credentials{APIKey: "key"}}
	var passphrases []string
	deps := testDeps()
	deps.OpenCredentialStore = func(passphrase string) (credentials.Store, error) {
		passphrases = append(passphrases, passphrase)
		return store, nil
	}

	output, err := executeForTest(deps, "", "auth", "logout")
	if err != nil {
		t.Fatalf("auth logout returned error: %v", err)
	}
	if !strings.Contains(output, "stored credentials removed") {
		t.Fatalf("expected removal confirmation, got %q", output)
	}
	if store.clearCalls != 1 {
		t.Fatalf("expected one clear call, got %d", store.clearCalls)
	}
	if len(passphrases) != 1 || passphrases[0] != "" {
		t.Fatalf("expected store opened without a passphrase, got %#v", passphrases)
	}
}

func TestAuthLoginRequiresInteractiveTerminal(t *testing.T) {
	t.Parallel()

	_, err := executeForTest(testDeps(), "", "auth", "login")
	assertTypedCategory(t, err, faults.ValidationError)
	if !strings.Contains(err.Error(), "interactive terminal is required") {
		t.Fatalf("expected terminal requirement error, got %v", err)
	}
}

func TestAuthStatusReportsEnvSources(t *testing.T) {
	t.Setenv(credentials.APIKeyEnvVar, "env-key")
	t.Setenv(credentials.CookieEnvVar, "")
	t.Setenv(credentials.PassphraseEnvVar, "")

	deps := testDeps()

	output, err := executeForTest(deps, "", "auth", "status")
	if err != nil {
		t.Fatalf("auth status returned error: %v", err)
	}
	if !strings.Contains(output, "api key: environment") {
		t.Fatalf("expected environment api key source, got %q", output)
	}
	if !strings.Contains(output, "cookie:  not set") {
		t.Fatalf("expected unset cookie source, got %q", output)
	}
	if !strings.Contains(output, "store:   absent (/home/tester/.bloxsync/credentials.yaml)") {
		t.Fatalf("expected absent store note with path, got %q", output)
	}
}

func TestAuthStatusMergesUnlockedStore(t *testing.T) {
	t.Setenv(credentials.APIKeyEnvVar, "")
	t.Setenv(credentials.CookieEnvVar, "")
	t.Setenv(credentials.PassphraseEnvVar, "hunter2")

	store := &testCredentialStore{exists: true, saved: &credentials.Credentials{APIKey: "stored-key"}}
	var passphrases []string
	deps := testDeps()
	deps.OpenCredentialStore = func(passphrase string) (credentials.Store, error) {
		passphrases = append(passphrases, passphrase)
		return store, nil
	}

	output, err := executeForTest(deps, "", "auth", "status")
	if err != nil {
		t.Fatalf("auth status returned error: %v", err)
	}
	if !strings.Contains(output, "api key: credential store") {
		t.Fatalf("expected store-sourced api key, got %q", output)
	}
	if !strings.Contains(output, "store:   present") {
		t.Fatalf("expected present store note, got %q", output)
	}
	if len(passphrases) != 1 || passphrases[0] != "hunter2" {
		t.Fatalf("expected store opened with the exported passphrase, got %#v", passphrases)
	}
}

func TestAuthStatusSkipsLockedStore(t *testing.T) {
	t.Setenv(credentials.APIKeyEnvVar, "")
	t.Setenv(credentials.CookieEnvVar, "")
	t.Setenv(credentials.PassphraseEnvVar, "")

	store := &testCredentialStore{exists: true, saved: &credentials.Credentials{APIKey: "stored-key"}}
	deps := testDeps()
	deps.OpenCredentialStore = func(string) (credentials.Store, error) {
		return store, nil
	}

	output, err := executeForTest(deps, "", "auth", "status")
	if err != nil {
		t.Fatalf("auth status returned error: %v", err)
	}
	if !strings.Contains(output, "api key: not set") {
		t.Fatalf("expected unresolved api key without a passphrase, got %q", output)
	}
	if !strings.Contains(output, "store:   present") {
		t.Fatalf("expected present store note, got %q", output)
	}
}
