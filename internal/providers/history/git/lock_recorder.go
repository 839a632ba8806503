package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/history"
)

const (
	defaultRemoteName  = "origin"
	defaultAuthorName  = "bloxsync"
	defaultAuthorEmail = "bloxsync@local"
)

var _ history.Recorder = (*LockRecorder)(nil)

// LockRecorder commits the lock file into the git repository at the project
// root, creating the repository on first use. Only the lock file is ever
// staged; other worktree changes are left alone.
type LockRecorder struct {
	projectDir  string
	lockFile    string
	authorName  string
	authorEmail string
}

type RecorderOption func(*LockRecorder)

// WithAuthor overrides the commit signature. Blank values keep the defaults.
func WithAuthor(name string, email string) RecorderOption {
	return func(r *LockRecorder) {
		if r == nil {
			return
		}
		if strings.TrimSpace(name) != "" {
			r.authorName = strings.TrimSpace(name)
		}
		if strings.TrimSpace(email) != "" {
			r.authorEmail = strings.TrimSpace(email)
		}
	}
}

func NewLockRecorder(projectDir string, lockFileName string, opts ...RecorderOption) (*LockRecorder, error) {
	if strings.TrimSpace(projectDir) == "" {
		return nil, validationError("history recorder requires a project directory", nil)
	}
	if strings.TrimSpace(lockFileName) == "" {
		return nil, validationError("history recorder requires a lock file name", nil)
	}

	recorder := &LockRecorder{
		projectDir:  filepath.Clean(projectDir),
		lockFile:    filepath.ToSlash(lockFileName),
		authorName:  defaultAuthorName,
		authorEmail: defaultAuthorEmail,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(recorder)
	}

	return recorder, nil
}

func (r *LockRecorder) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return internalError("history init canceled", err)
	}
	_, err := r.openOrInit()
	return err
}

func (r *LockRecorder) Record(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, internalError("history record canceled", err)
	}

	repo, err := r.openOrInit()
	if err != nil {
		return false, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, internalError("failed to open git worktree", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return false, internalError("failed to inspect git worktree status", err)
	}
	// The status map holds changed paths only; an absent lock entry means
	// the ledger matches the last commit.
	if _, changed := status[r.lockFile]; !changed {
		return false, nil
	}

	if _, err := worktree.Add(r.lockFile); err != nil {
		return false, internalError("failed to stage the lock file", err)
	}

	commitMessage := strings.TrimSpace(message)
	if commitMessage == "" {
		commitMessage = "bloxsync: update lock ledger"
	}

	if _, err := worktree.Commit(commitMessage, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  r.authorName,
			Email: r.authorEmail,
			When:  time.Now(),
		},
	}); err != nil {
		return false, internalError("failed to commit the lock file", err)
	}

	return true, nil
}

func (r *LockRecorder) Status(ctx context.Context) (history.Status, error) {
	if err := ctx.Err(); err != nil {
		return history.Status{}, internalError("history status canceled", err)
	}

	repo, err := gogit.PlainOpen(r.projectDir)
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return history.Status{}, stateError(fmt.Sprintf("history is enabled but %q is not a git repository", r.projectDir), err)
		}
		return history.Status{}, internalError("failed to open git repository", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return history.Status{}, internalError("failed to open git worktree", err)
	}
	worktreeStatus, err := worktree.Status()
	if err != nil {
		return history.Status{}, internalError("failed to inspect git worktree status", err)
	}

	branch, localHash, err := currentBranch(repo)
	if err != nil {
		return history.Status{}, err
	}

	report := history.Status{
		Branch:         branch,
		HasUncommitted: !worktreeStatus.IsClean(),
	}

	if _, err := repo.Remote(defaultRemoteName); err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return report, nil
		}
		return history.Status{}, internalError("failed to inspect git remotes", err)
	}
	report.HasRemote = true

	remoteHash, err := remoteTrackingHash(repo, branch)
	if err != nil {
		return history.Status{}, err
	}

	ahead, behind, err := compareCommitGraphs(repo, localHash, remoteHash)
	if err != nil {
		return history.Status{}, err
	}
	report.Ahead = ahead
	report.Behind = behind

	return report, nil
}

func (r *LockRecorder) openOrInit() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpen(r.projectDir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, internalError("failed to open git repository", err)
	}

	repo, err = gogit.PlainInit(r.projectDir, false)
	if err != nil {
		return nil, internalError("failed to initialize git repository", err)
	}
	return repo, nil
}

// currentBranch resolves the checked-out branch name and its head commit.
// An unborn head (fresh repository before the first commit) yields the
// symbolic target with a zero hash.
func currentBranch(repo *gogit.Repository) (string, plumbing.Hash, error) {
	head, err := repo.Head()
	if err == nil {
		if !head.Name().IsBranch() {
			return "", plumbing.ZeroHash, stateError("repository head is detached", nil)
		}
		return head.Name().Short(), head.Hash(), nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", plumbing.ZeroHash, internalError("failed to resolve git head", err)
	}

	symbolic, symbolicErr := repo.Reference(plumbing.HEAD, false)
	if symbolicErr != nil {
		return "", plumbing.ZeroHash, internalError("failed to resolve git head reference", symbolicErr)
	}
	return symbolic.Target().Short(), plumbing.ZeroHash, nil
}

func remoteTrackingHash(repo *gogit.Repository, branch string) (plumbing.Hash, error) {
	refName := plumbing.ReferenceName(fmt.Sprintf("refs/remotes/%s/%s", defaultRemoteName, branch))
	ref, err := repo.Reference(refName, true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, nil
		}
		return plumbing.ZeroHash, internalError("failed to resolve remote tracking reference", err)
	}
	return ref.Hash(), nil
}

// compareCommitGraphs marks each head's ancestry and counts the commits
// reachable from exactly one side.
func compareCommitGraphs(repo *gogit.Repository, localHash plumbing.Hash, remoteHash plumbing.Hash) (int, int, error) {
	const (
		markLocal = 1 << iota
		markRemote
	)

	marks := make(map[plumbing.Hash]uint8)
	if err := markCommitGraph(repo, localHash, markLocal, marks); err != nil {
		return 0, 0, err
	}
	if err := markCommitGraph(repo, remoteHash, markRemote, marks); err != nil {
		return 0, 0, err
	}

	var ahead int
	var behind int
	for _, mark := range marks {
		switch mark {
		case markLocal:
			ahead++
		case markRemote:
			behind++
		}
	}
	return ahead, behind, nil
}

func markCommitGraph(repo *gogit.Repository, start plumbing.Hash, mark uint8, marks map[plumbing.Hash]uint8) error {
	if start == plumbing.ZeroHash {
		return nil
	}

	stack := []plumbing.Hash{start}
	for len(stack) > 0 {
		last := len(stack) - 1
		hash := stack[last]
		stack = stack[:last]

		currentMark := marks[hash]
		if currentMark&mark != 0 {
			continue
		}

		commit, err := repo.CommitObject(hash)
		if err != nil {
			return internalError("failed to load git commit for status", err)
		}
		marks[hash] = currentMark | mark
		stack = append(stack, commit.ParentHashes...)
	}

	return nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func stateError(message string, cause error) error {
	return faults.NewTypedError(faults.StateError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
