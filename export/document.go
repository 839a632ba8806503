package export

import (
	"encoding/json"

	"github.com/crmarques/bloxsync/remote"
)

// Exported entries carry the project file's field names so the document reads
// like configuration, with the remote id added. Values are plain Go types
// (string, int, bool) so the jq filter and every renderer accept them.

func gamePassDocuments(snapshots []remote.Snapshot) []any {
	entries := make([]any, 0, len(snapshots))
	for _, snapshot := range snapshots {
		entry := map[string]any{
			"name": snapshot.Name,
			"id":   int(snapshot.ID),
		}
		setString(entry, "description", snapshot.Fields["description"])
		setInt(entry, "price", snapshot.Fields["price"])
		setBool(entry, "is-for-sale", snapshot.Fields["isForSale"])
		entries = append(entries, entry)
	}
	return entries
}

func developerProductDocuments(snapshots []remote.Snapshot) []any {
	entries := make([]any, 0, len(snapshots))
	for _, snapshot := range snapshots {
		entry := map[string]any{
			"name": snapshot.Name,
			"id":   int(snapshot.ID),
		}
		setString(entry, "description", snapshot.Fields["description"])
		setInt(entry, "price", snapshot.Fields["price"])
		setBool(entry, "is-active", snapshot.Fields["isActive"])
		entries = append(entries, entry)
	}
	return entries
}

func badgeDocuments(snapshots []remote.Snapshot) []any {
	entries := make([]any, 0, len(snapshots))
	for _, snapshot := range snapshots {
		entry := map[string]any{
			"name": snapshot.Name,
			"id":   int(snapshot.ID),
		}
		setString(entry, "description", snapshot.Fields["description"])
		setBool(entry, "is-enabled", snapshot.Fields["enabled"])
		entries = append(entries, entry)
	}
	return entries
}

func setString(entry map[string]any, key string, value any) {
	text, ok := value.(string)
	if !ok || text == "" {
		return
	}
	entry[key] = text
}

func setInt(entry map[string]any, key string, value any) {
	switch typed := value.(type) {
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return
		}
		entry[key] = int(parsed)
	case float64:
		entry[key] = int(typed)
	case int64:
		entry[key] = int(typed)
	case int:
		entry[key] = typed
	}
}

func setBool(entry map[string]any, key string, value any) {
	flag, ok := value.(bool)
	if !ok {
		return
	}
	entry[key] = flag
}
