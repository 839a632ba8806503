// Package export renders live remote state as a config-shaped document.
// It reads through the gateway only; the lock ledger records what this tool
// did, while export shows what the platform holds right now.
package export

import (
	"context"
	"fmt"
	"strings"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatLuau Format = "luau"
)

// ParseFormat maps user input to a format. The empty string selects YAML so
// callers can pass a flag value through untouched.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "yaml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "luau", "lua":
		return FormatLuau, nil
	default:
		return "", validationError(fmt.Sprintf("unknown export format %q", raw), nil)
	}
}

type Options struct {
	Format Format
	// Query is an optional jq expression applied to the document before
	// rendering.
	Query string
}

type Exporter interface {
	Export(ctx context.Context, opts Options) ([]byte, error)
}
