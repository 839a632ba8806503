package roblox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const maxResponseBodyBytes = 1 << 20

// apiRequest describes one key-authenticated call. The cookie-authenticated
// universe configuration path has its own flow in universe.go.
type apiRequest struct {
	purpose     string
	method      string
	base        *url.URL
	path        string
	query       url.Values
	contentType string
	body        []byte
}

func (g *OpenCloudGateway) execute(ctx context.Context, request apiRequest) ([]byte, error) {
	target, err := resolveRequestURL(request.base, request.path, request.query)
	if err != nil {
		return nil, err
	}

	httpRequest, err := http.NewRequestWithContext(ctx, request.method, target, bytes.NewReader(request.body))
	if err != nil {
		return nil, internalError(fmt.Sprintf("failed to build %s request", request.purpose), err)
	}

	httpRequest.Header.Set("Accept", "application/json")
	if len(request.body) > 0 {
		contentType := request.contentType
		if contentType == "" {
			contentType = "application/json"
		}
		httpRequest.Header.Set("Content-Type", contentType)
	}
	httpRequest.Header.Set("x-api-key", g.apiKey)
	httpRequest.Header.Set("x-request-id", uuid.NewString())

	if err := g.waitForSlot(ctx); err != nil {
		return nil, err
	}

	response, err := g.doRequest(ctx, request.purpose, httpRequest)
	if err != nil {
		return nil, transportError(fmt.Sprintf("%s request failed", request.purpose), err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodyBytes))
	if err != nil {
		return nil, transportError(fmt.Sprintf("failed to read %s response", request.purpose), err)
	}

	if response.StatusCode >= 400 {
		return nil, classifyStatusError(request.purpose, response.StatusCode, body)
	}

	return body, nil
}

func (g *OpenCloudGateway) waitForSlot(ctx context.Context) error {
	if g.limiter == nil {
		return nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return transportError("request canceled while waiting for a rate limit slot", err)
	}
	return nil
}

func resolveRequestURL(base *url.URL, requestPath string, query url.Values) (string, error) {
	if base == nil {
		return "", internalError("request base url is not configured", nil)
	}
	if strings.TrimSpace(requestPath) == "" {
		return "", validationError("request path is required", nil)
	}

	target := *base
	basePath := strings.TrimSuffix(target.Path, "/")
	target.Path = basePath + "/" + strings.TrimPrefix(requestPath, "/")
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	return target.String(), nil
}
