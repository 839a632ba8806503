package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/crmarques/bloxsync/remote"
)

// UpdateUniverse patches universe configuration through the develop API.
// Open Cloud has no write surface for these settings, so this is the one
// call that authenticates with the account cookie, including the platform's
// store-and-retry CSRF handshake.
func (g *OpenCloudGateway) UpdateUniverse(ctx context.Context, universeID int64, patch remote.Payload) error {
	purpose := "universe configuration update"

	if universeID <= 0 {
		return validationError("universe id must be positive", nil)
	}
	if len(patch) == 0 {
		return nil
	}
	if g.cookie == "" {
		return authError("universe configuration requires the roblox security cookie", nil)
	}

	normalized, err := normalizeUniversePatch(patch)
	if err != nil {
		return err
	}
	body, err := json.Marshal(normalized)
	if err != nil {
		return internalError("failed to encode universe configuration patch", err)
	}

	target, err := resolveRequestURL(g.developBaseURL, fmt.Sprintf("/v2/universes/%d/configuration", universeID), nil)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < 2; attempt++ {
		request, err := http.NewRequestWithContext(ctx, http.MethodPatch, target, bytes.NewReader(body))
		if err != nil {
			return internalError("failed to build universe configuration request", err)
		}
		request.Header.Set("Accept", "application/json")
		request.Header.Set("Content-Type", "application/json")
		request.Header.Set("Cookie", ".ROBLOSECURITY="+g.cookie)
		request.Header.Set("x-request-id", uuid.NewString())
		if token := g.currentCSRFToken(); token != "" {
			request.Header.Set("X-CSRF-TOKEN", token)
		}

		if err := g.waitForSlot(ctx); err != nil {
			return err
		}

		response, err := g.doRequest(ctx, purpose, request)
		if err != nil {
			return transportError("universe configuration request failed", err)
		}

		responseBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodyBytes))
		response.Body.Close()
		if readErr != nil {
			return transportError("failed to read universe configuration response", readErr)
		}

		if response.StatusCode == http.StatusForbidden && attempt == 0 {
			if token := strings.TrimSpace(response.Header.Get("x-csrf-token")); token != "" {
				g.storeCSRFToken(token)
				continue
			}
		}
		if response.StatusCode >= 400 {
			return classifyStatusError(purpose, response.StatusCode, responseBody)
		}
		return nil
	}

	return authError("universe configuration request failed the csrf handshake twice", nil)
}

func (g *OpenCloudGateway) currentCSRFToken() string {
	g.csrfMu.Lock()
	defer g.csrfMu.Unlock()
	return g.csrfToken
}

func (g *OpenCloudGateway) storeCSRFToken(token string) {
	g.csrfMu.Lock()
	defer g.csrfMu.Unlock()
	g.csrfToken = token
}

// normalizeUniversePatch translates device names to the casing the develop
// API expects; every other field passes through as built.
func normalizeUniversePatch(patch remote.Payload) (remote.Payload, error) {
	normalized := make(remote.Payload, len(patch))
	for key, value := range patch {
		if key == "playableDevices" {
			devices, err := apiDeviceNames(value)
			if err != nil {
				return nil, err
			}
			normalized[key] = devices
			continue
		}
		normalized[key] = value
	}
	return normalized, nil
}

func apiDeviceNames(value any) ([]string, error) {
	names, ok := value.([]string)
	if !ok {
		return nil, internalError("playableDevices must be a string list", nil)
	}

	mapped := make([]string, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "computer":
			mapped = append(mapped, "Computer")
		case "phone":
			mapped = append(mapped, "Phone")
		case "tablet":
			mapped = append(mapped, "Tablet")
		case "console":
			mapped = append(mapped, "Console")
		case "vr":
			mapped = append(mapped, "VR")
		default:
			return nil, validationError(fmt.Sprintf("unknown playable device %q", name), nil)
		}
	}
	return mapped, nil
}
