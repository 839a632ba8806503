package roblox

import (
	"context"
	"net/http"
	"net/url"

	"github.com/crmarques/bloxsync/debugctx"
)

func (g *OpenCloudGateway) doRequest(ctx context.Context, purpose string, request *http.Request) (*http.Response, error) {
	target := redactURLForDebug(request.URL.String())
	debugctx.Printf(ctx, "roblox request purpose=%q method=%q url=%q", purpose, request.Method, target)

	response, err := g.client.Do(request)
	if err != nil {
		debugctx.Printf(ctx, "roblox request failed purpose=%q url=%q error=%q", purpose, target, err.Error())
		return nil, err
	}

	debugctx.Printf(ctx, "roblox response purpose=%q url=%q status=%d", purpose, target, response.StatusCode)
	return response, nil
}

// redactURLForDebug hides query values; pagination cursors can embed tokens.
func redactURLForDebug(target string) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return target
	}

	query := parsed.Query()
	for key := range query {
		query.Set(key, "redacted")
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}
