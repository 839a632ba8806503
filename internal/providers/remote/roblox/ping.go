package roblox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Ping exercises the API key against a cheap read so credential problems
// surface before a run mutates anything.
func (g *OpenCloudGateway) Ping(ctx context.Context) error {
	_, err := g.execute(ctx, apiRequest{
		purpose: "connectivity check",
		method:  http.MethodGet,
		base:    g.apiBaseURL,
		path:    fmt.Sprintf("/datastores/v1/universes/%d/standard-datastores", g.universeID),
		query:   url.Values{"limit": {"1"}},
	})
	return err
}
