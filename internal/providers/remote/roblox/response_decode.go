package roblox

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/crmarques/bloxsync/remote"
)

// decodeObject parses a response body into a generic JSON object. An empty
// body counts as success with no payload, which the platform produces on
// several update endpoints.
func decodeObject(purpose string, body []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}

	var decoded any
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&decoded); err != nil {
		return nil, validationError(fmt.Sprintf("%s response is not valid JSON", purpose), err)
	}

	object, ok := decoded.(map[string]any)
	if !ok {
		return nil, validationError(fmt.Sprintf("%s response is not a JSON object", purpose), nil)
	}

	return object, nil
}

// itemSnapshot converts one listed item into a snapshot. The platform spells
// identifiers differently per endpoint, so the caller passes the keys to try.
// Items without a usable id or name are skipped rather than failing the list.
func itemSnapshot(item map[string]any, idKeys []string) (remote.Snapshot, bool) {
	id, ok := firstInt64(item, idKeys...)
	if !ok || id <= 0 {
		return remote.Snapshot{}, false
	}

	name, ok := firstString(item, "name")
	if !ok || strings.TrimSpace(name) == "" {
		return remote.Snapshot{}, false
	}

	return remote.Snapshot{ID: id, Name: name, Fields: item}, true
}

func firstInt64(object map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		value, ok := object[key]
		if !ok {
			continue
		}
		if parsed, ok := coerceInt64(value); ok {
			return parsed, true
		}
	}
	return 0, false
}

func firstString(object map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		value, ok := object[key]
		if !ok {
			continue
		}
		if text, ok := value.(string); ok {
			return text, true
		}
	}
	return "", false
}

func firstSlice(object map[string]any, keys ...string) ([]any, bool) {
	for _, key := range keys {
		value, ok := object[key]
		if !ok {
			continue
		}
		if items, ok := value.([]any); ok {
			return items, true
		}
	}
	return nil, false
}

// coerceInt64 accepts the numeric spellings the platform mixes freely:
// JSON numbers on most endpoints, decimal strings on the assets API.
func coerceInt64(value any) (int64, bool) {
	switch typed := value.(type) {
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	case float64:
		return int64(typed), true
	case int64:
		return typed, true
	default:
		return 0, false
	}
}

func classifyStatusError(purpose string, statusCode int, body []byte) error {
	message := fmt.Sprintf("%s failed with status %d", purpose, statusCode)
	if summary := summarizeBody(body); summary != "" {
		message = fmt.Sprintf("%s: %s", message, summary)
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return authError(message, nil)
	case statusCode == http.StatusNotFound:
		return notFoundError(message, nil)
	case statusCode == http.StatusConflict:
		return conflictError(message, nil)
	case statusCode == http.StatusTooManyRequests:
		return transportError(message, nil)
	case statusCode >= 400 && statusCode < 500:
		return validationError(message, nil)
	default:
		return transportError(message, nil)
	}
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	if len(trimmed) > 512 {
		return trimmed[:512] + "..."
	}
	return trimmed
}
