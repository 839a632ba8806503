package file

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/resource"
	"github.com/crmarques/bloxsync/state"
)

// LockStore keeps the lock ledger in memory for the run and persists it as
// human-readable YAML next to the project file.
type LockStore struct {
	path string
	lock state.LockFile
}

// Load reads the lock file at path. An absent file yields an empty ledger;
// a present but unreadable or structurally invalid one is corruption and
// aborts the run.
func Load(path string) (*LockStore, error) {
	if path == "" {
		return nil, stateError("lock file path is empty", nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LockStore{path: path, lock: emptyLock()}, nil
		}
		return nil, stateError("failed to read lock file", err)
	}

	lock, err := decodeLock(data)
	if err != nil {
		return nil, err
	}

	return &LockStore{path: path, lock: lock}, nil
}

func emptyLock() state.LockFile {
	return state.LockFile{
		Version:           state.LockVersion,
		GamePasses:        map[string]state.Entry{},
		DeveloperProducts: map[string]state.Entry{},
		Badges:            map[string]state.Entry{},
	}
}

func (s *LockStore) Lookup(kind resource.Kind, name string) (state.Entry, bool) {
	entry, ok := s.section(kind)[name]
	return entry, ok
}

// Upsert replaces the whole entry. There is no field merging: callers carry
// forward whatever they want preserved.
func (s *LockStore) Upsert(kind resource.Kind, name string, entry state.Entry) {
	s.section(kind)[name] = entry
}

func (s *LockStore) Entries(kind resource.Kind) map[string]state.Entry {
	section := s.section(kind)
	copied := make(map[string]state.Entry, len(section))
	for name, entry := range section {
		copied[name] = entry
	}
	return copied
}

func (s *LockStore) Universe() *state.UniverseSnapshot {
	if s.lock.Universe == nil {
		return nil
	}
	snapshot := *s.lock.Universe
	return &snapshot
}

func (s *LockStore) SetUniverse(snapshot state.UniverseSnapshot) {
	s.lock.Universe = &snapshot
}

// Prune drops entries not named in keep and reports what was removed, in
// kind order with names sorted. It mutates memory only; the caller decides
// whether to persist.
func (s *LockStore) Prune(keep map[resource.Kind][]string) []resource.Ref {
	var removed []resource.Ref
	for _, kind := range resource.NamedKinds() {
		keepSet := make(map[string]struct{}, len(keep[kind]))
		for _, name := range keep[kind] {
			keepSet[name] = struct{}{}
		}
		section := s.section(kind)
		for _, name := range sortedNames(section) {
			if _, ok := keepSet[name]; ok {
				continue
			}
			delete(section, name)
			removed = append(removed, resource.Ref{Kind: kind, Name: name})
		}
	}
	return removed
}

// Persist writes the ledger atomically: temp file in the target directory,
// then rename. Output is byte-stable, so persisting an unchanged ledger
// yields an unchanged file.
func (s *LockStore) Persist(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return internalError("lock persist canceled", err)
	}

	encoded, err := encodeLock(s.lock)
	if err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), ".bloxsync-lock-*")
	if err != nil {
		return internalError("failed to create temporary lock file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(encoded); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to write temporary lock file", err)
	}
	if err := tempFile.Chmod(0o644); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to set lock file permissions", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to finalize temporary lock file", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to replace lock file", err)
	}

	return nil
}

func (s *LockStore) section(kind resource.Kind) map[string]state.Entry {
	switch kind {
	case resource.GamePass:
		return s.lock.GamePasses
	case resource.DeveloperProduct:
		return s.lock.DeveloperProducts
	case resource.Badge:
		return s.lock.Badges
	default:
		// Kinds without a lock section get a throwaway map so reads stay
		// mechanically safe.
		return map[string]state.Entry{}
	}
}

func sortedNames(entries map[string]state.Entry) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func stateError(message string, cause error) error {
	return faults.NewTypedError(faults.StateError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
