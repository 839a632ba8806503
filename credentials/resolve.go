package credentials

import (
	"context"
	"os"
	"strings"
)

// Resolution is the outcome of credential lookup, with per-credential
// provenance for status output.
type Resolution struct {
	Credentials  Credentials
	APIKeySource Source
	CookieSource Source
}

// FromEnv reads both credentials from the process environment. Callers merge
// the store afterwards when gaps remain.
func FromEnv() Resolution {
	resolution := Resolution{APIKeySource: SourceNone, CookieSource: SourceNone}

	if key := strings.TrimSpace(os.Getenv(APIKeyEnvVar)); key != "" {
		resolution.Credentials.APIKey = key
		resolution.APIKeySource = SourceEnv
	}
	if cookie := strings.TrimSpace(os.Getenv(CookieEnvVar)); cookie != "" {
		resolution.Credentials.Cookie = cookie
		resolution.CookieSource = SourceEnv
	}

	return resolution
}

// Complete reports whether both credentials are present. An incomplete
// resolution is what justifies unlocking the store.
func (r Resolution) Complete() bool {
	return r.Credentials.APIKey != "" && r.Credentials.Cookie != ""
}

// MergeStore fills unset credentials from the store. Environment values are
// never overridden.
func (r Resolution) MergeStore(ctx context.Context, store Store) (Resolution, error) {
	if store == nil {
		return r, nil
	}

	stored, err := store.Load(ctx)
	if err != nil {
		return Resolution{}, err
	}

	if r.Credentials.APIKey == "" && stored.APIKey != "" {
		r.Credentials.APIKey = stored.APIKey
		r.APIKeySource = SourceStore
	}
	if r.Credentials.Cookie == "" && stored.Cookie != "" {
		r.Credentials.Cookie = stored.Cookie
		r.CookieSource = SourceStore
	}

	return r, nil
}
