package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crmarques/bloxsync/faults"
)

func TestInitRefusesToOverwriteWithoutForce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bloxsync.yaml")
	if err := os.WriteFile(path, []byte("universe:\n    id: 1\n"), 0o644); err != nil {
		t.Fatalf("failed to seed project file: %v", err)
	}

	_, err := executeForTest(testDeps(), "", "init", "--config", path)
	assertTypedCategory(t, err, faults.ConflictError)
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
}

func TestInitRequiresInteractiveTerminal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bloxsync.yaml")

	_, err := executeForTest(testDeps(), "", "init", "--config", path)
	assertTypedCategory(t, err, faults.ValidationError)
	if !strings.Contains(err.Error(), "interactive terminal is required") {
		t.Fatalf("expected terminal requirement error, got %v", err)
	}
}

func TestInitForceStillNeedsTerminal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bloxsync.yaml")
	if err := os.WriteFile(path, []byte("universe:\n    id: 1\n"), 0o644); err != nil {
		t.Fatalf("failed to seed project file: %v", err)
	}

	_, err := executeForTest(testDeps(), "", "init", "--config", path, "--force")
	assertTypedCategory(t, err, faults.ValidationError)
}
