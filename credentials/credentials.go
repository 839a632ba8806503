// Package credentials resolves the platform secrets for a run: process
// environment first, then the passphrase-encrypted store for whatever is
// still missing.
package credentials

import "context"

const (
	APIKeyEnvVar     = "ROBLOX_API_KEY"
	CookieEnvVar     = "ROBLOX_COOKIE"
	PassphraseEnvVar = "BLOXSYNC_PASSPHRASE"
)

// Credentials carries the two platform secrets. APIKey authorizes every Open
// Cloud call; Cookie elevates only the universe configuration step.
type Credentials struct {
	APIKey string
	Cookie string
}

// Store persists credentials encrypted at rest. Exists is answerable without
// the passphrase so callers can avoid unlocking a store they will not read.
type Store interface {
	Save(ctx context.Context, creds Credentials) error
	Load(ctx context.Context) (Credentials, error)
	Clear(ctx context.Context) error
	Exists() bool
}

// Source says where a resolved credential came from.
type Source string

const (
	SourceEnv   Source = "environment"
	SourceStore Source = "credential store"
	SourceNone  Source = "not set"
)
