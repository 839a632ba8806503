package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"

	"github.com/crmarques/bloxsync/faults"
)

const lockFileName = "bloxsync-lock.yaml"

func newTestRecorder(t *testing.T, opts ...RecorderOption) (*LockRecorder, string) {
	t.Helper()

	dir := t.TempDir()
	recorder, err := NewLockRecorder(dir, lockFileName, opts...)
	if err != nil {
		t.Fatalf("recorder construction returned error: %v", err)
	}
	return recorder, dir
}

func writeLock(t *testing.T, dir string, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, lockFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write lock file: %v", err)
	}
}

func TestRecordInitializesRepositoryAndCommits(t *testing.T) {
	t.Parallel()

	recorder, dir := newTestRecorder(t)
	writeLock(t, dir, "version: 1\n")

	committed, err := recorder.Record(context.Background(), "bloxsync: sync universe 77")
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if !committed {
		t.Fatal("expected the first record to commit")
	}

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		t.Fatalf("expected an initialized repository: %v", err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("failed to resolve head: %v", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatalf("failed to load head commit: %v", err)
	}
	if commit.Message != "bloxsync: sync universe 77" {
		t.Fatalf("unexpected commit message: %q", commit.Message)
	}
	if commit.Author.Name != defaultAuthorName || commit.Author.Email != defaultAuthorEmail {
		t.Fatalf("unexpected author: %s <%s>", commit.Author.Name, commit.Author.Email)
	}
}

func TestRecordSkipsUnchangedLock(t *testing.T) {
	t.Parallel()

	recorder, dir := newTestRecorder(t)
	writeLock(t, dir, "version: 1\n")

	if _, err := recorder.Record(context.Background(), ""); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	committed, err := recorder.Record(context.Background(), "")
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if committed {
		t.Fatal("an unchanged lock must not commit")
	}

	writeLock(t, dir, "version: 1\ngame-passes:\n  VIP: {remote-id: 101}\n")
	committed, err = recorder.Record(context.Background(), "")
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if !committed {
		t.Fatal("expected the changed lock to commit")
	}
}

func TestRecordLeavesOtherFilesUnstaged(t *testing.T) {
	t.Parallel()

	recorder, dir := newTestRecorder(t)
	writeLock(t, dir, "version: 1\n")
	if _, err := recorder.Record(context.Background(), ""); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0o644); err != nil {
		t.Fatalf("failed to write unrelated file: %v", err)
	}

	committed, err := recorder.Record(context.Background(), "")
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if committed {
		t.Fatal("unrelated changes must not produce a commit")
	}

	status, err := recorder.Status(context.Background())
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if !status.HasUncommitted {
		t.Fatal("expected the unrelated file to show as uncommitted")
	}
}

func TestRecordUsesConfiguredAuthor(t *testing.T) {
	t.Parallel()

	recorder, dir := newTestRecorder(t, WithAuthor("Build Bot", "bot@example.com"))
	writeLock(t, dir, "version: 1\n")

	if _, err := recorder.Record(context.Background(), ""); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("failed to resolve head: %v", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		t.Fatalf("failed to load head commit: %v", err)
	}
	if commit.Author.Name != "Build Bot" || commit.Author.Email != "bot@example.com" {
		t.Fatalf("unexpected author: %s <%s>", commit.Author.Name, commit.Author.Email)
	}
}

func TestStatusOnFreshRepository(t *testing.T) {
	t.Parallel()

	recorder, dir := newTestRecorder(t)
	if err := recorder.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	status, err := recorder.Status(context.Background())
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if status.Branch == "" {
		t.Fatal("expected a branch name on the unborn head")
	}
	if status.HasRemote || status.Ahead != 0 || status.Behind != 0 {
		t.Fatalf("expected no remote tracking on a fresh repository, got: %+v", status)
	}
	if status.HasUncommitted {
		t.Fatal("expected a clean fresh repository")
	}

	writeLock(t, dir, "version: 1\n")
	status, err = recorder.Status(context.Background())
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if !status.HasUncommitted {
		t.Fatal("expected the new lock file to show as uncommitted")
	}
}

func TestStatusWithoutRepositoryIsStateError(t *testing.T) {
	t.Parallel()

	recorder, _ := newTestRecorder(t)
	if _, err := recorder.Status(context.Background()); !faults.IsCategory(err, faults.StateError) {
		t.Fatalf("expected a state error, got: %v", err)
	}
}

func TestNewLockRecorderValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewLockRecorder("", lockFileName); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected a validation error for an empty directory, got: %v", err)
	}
	if _, err := NewLockRecorder(t.TempDir(), "  "); !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected a validation error for a blank lock name, got: %v", err)
	}
}
