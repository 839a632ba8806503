package roblox

import (
	"context"
	"fmt"
	"net/http"

	"github.com/crmarques/bloxsync/remote"
)

var gamePassIDKeys = []string{"id", "gamePassId"}

func (g *OpenCloudGateway) gamePassesPath() string {
	return fmt.Sprintf("/game-passes/v1/universes/%d/game-passes", g.universeID)
}

func (g *OpenCloudGateway) listGamePasses(ctx context.Context) ([]remote.Snapshot, error) {
	return g.listPaged(ctx, listPage{
		purpose:     "game pass list",
		base:        g.apiBaseURL,
		path:        g.gamePassesPath(),
		sizeParam:   "limit",
		sizeValue:   "100",
		cursorParam: "cursor",
		itemKeys:    []string{"data", "gamePasses"},
		idKeys:      gamePassIDKeys,
	})
}

func (g *OpenCloudGateway) getGamePass(ctx context.Context, id int64) (remote.Snapshot, error) {
	purpose := "game pass lookup"

	body, err := g.execute(ctx, apiRequest{
		purpose: purpose,
		method:  http.MethodGet,
		base:    g.apiBaseURL,
		path:    fmt.Sprintf("%s/%d", g.gamePassesPath(), id),
	})
	if err != nil {
		return remote.Snapshot{}, err
	}

	payload, err := decodeObject(purpose, body)
	if err != nil {
		return remote.Snapshot{}, err
	}

	return lookupSnapshot(payload, id, gamePassIDKeys), nil
}

func (g *OpenCloudGateway) createGamePass(ctx context.Context, payload remote.Payload) (int64, error) {
	purpose := "game pass create"

	fields, err := formFields(payload)
	if err != nil {
		return 0, err
	}
	contentType, body, err := encodeMultipart(fields, nil)
	if err != nil {
		return 0, err
	}

	responseBody, err := g.execute(ctx, apiRequest{
		purpose:     purpose,
		method:      http.MethodPost,
		base:        g.apiBaseURL,
		path:        g.gamePassesPath(),
		contentType: contentType,
		body:        body,
	})
	if err != nil {
		return 0, err
	}

	object, err := decodeObject(purpose, responseBody)
	if err != nil {
		return 0, err
	}

	id, ok := firstInt64(object, gamePassIDKeys...)
	if !ok || id <= 0 {
		return 0, validationError("game pass create response did not include an id", nil)
	}
	return id, nil
}

func (g *OpenCloudGateway) updateGamePass(ctx context.Context, id int64, payload remote.Payload) error {
	fields, err := formFields(payload)
	if err != nil {
		return err
	}
	contentType, body, err := encodeMultipart(fields, nil)
	if err != nil {
		return err
	}

	_, err = g.execute(ctx, apiRequest{
		purpose:     "game pass update",
		method:      http.MethodPatch,
		base:        g.apiBaseURL,
		path:        fmt.Sprintf("%s/%d", g.gamePassesPath(), id),
		contentType: contentType,
		body:        body,
	})
	return err
}
