package file

import (
	"bytes"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/crmarques/bloxsync/state"
)

func decodeLock(data []byte) (state.LockFile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return emptyLock(), nil
	}

	var lock state.LockFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&lock); err != nil {
		return state.LockFile{}, stateError("lock file is corrupt", err)
	}

	if lock.Version == 0 {
		lock.Version = state.LockVersion
	}
	if lock.Version > state.LockVersion {
		return state.LockFile{}, stateError(fmt.Sprintf("lock file version %d is newer than this build supports", lock.Version), nil)
	}
	if lock.GamePasses == nil {
		lock.GamePasses = map[string]state.Entry{}
	}
	if lock.DeveloperProducts == nil {
		lock.DeveloperProducts = map[string]state.Entry{}
	}
	if lock.Badges == nil {
		lock.Badges = map[string]state.Entry{}
	}

	if err := validateLock(lock); err != nil {
		return state.LockFile{}, err
	}

	return lock, nil
}

func validateLock(lock state.LockFile) error {
	sections := []struct {
		name    string
		entries map[string]state.Entry
	}{
		{"game-passes", lock.GamePasses},
		{"developer-products", lock.DeveloperProducts},
		{"badges", lock.Badges},
	}

	for _, section := range sections {
		for name, entry := range section.entries {
			if strings.TrimSpace(name) == "" {
				return stateError(fmt.Sprintf("lock section %s contains a blank entry name", section.name), nil)
			}
			if entry.RemoteID <= 0 {
				return stateError(fmt.Sprintf("lock entry %q in %s has invalid remote-id %d", name, section.name, entry.RemoteID), nil)
			}
		}
	}

	return nil
}

// encodeLock produces the normalized byte-stable rendering: fixed section
// order, name keys sorted, two-space indent, one flow-style line per entry.
func encodeLock(lock state.LockFile) ([]byte, error) {
	data, err := yaml.Marshal(lock)
	if err != nil {
		return nil, internalError("failed to encode lock file", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, internalError("failed to reshape lock file", err)
	}
	if len(doc.Content) == 0 {
		return data, nil
	}

	root := doc.Content[0]
	flowEntrySections(root)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		_ = encoder.Close()
		return nil, internalError("failed to encode lock file", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, internalError("failed to finalize lock file", err)
	}
	return buf.Bytes(), nil
}

// flowEntrySections renders the universe snapshot and each name-keyed entry
// on a single line, keeping lock diffs at one line per resource.
func flowEntrySections(root *yaml.Node) {
	if root == nil || root.Kind != yaml.MappingNode {
		return
	}
	for idx := 0; idx < len(root.Content)-1; idx += 2 {
		switch root.Content[idx].Value {
		case "universe":
			if root.Content[idx+1].Kind == yaml.MappingNode {
				root.Content[idx+1].Style = yaml.FlowStyle
			}
		case "game-passes", "developer-products", "badges":
			sectionNode := root.Content[idx+1]
			if sectionNode.Kind != yaml.MappingNode {
				continue
			}
			for entryIdx := 1; entryIdx < len(sectionNode.Content); entryIdx += 2 {
				sectionNode.Content[entryIdx].Style = yaml.FlowStyle
			}
		}
	}
}
