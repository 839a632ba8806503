package roblox

import (
	"context"
	"fmt"
	"net/http"

	"github.com/crmarques/bloxsync/remote"
)

var developerProductIDKeys = []string{"id", "productId", "developerProductId"}

func (g *OpenCloudGateway) developerProductsPath() string {
	return fmt.Sprintf("/developer-products/v2/universes/%d/developer-products", g.universeID)
}

func (g *OpenCloudGateway) listDeveloperProducts(ctx context.Context) ([]remote.Snapshot, error) {
	return g.listPaged(ctx, listPage{
		purpose:     "developer product list",
		base:        g.apiBaseURL,
		path:        g.developerProductsPath() + "/creator",
		sizeParam:   "pageSize",
		sizeValue:   "50",
		cursorParam: "pageToken",
		itemKeys:    []string{"data", "developerProducts"},
		idKeys:      developerProductIDKeys,
	})
}

func (g *OpenCloudGateway) getDeveloperProduct(ctx context.Context, id int64) (remote.Snapshot, error) {
	purpose := "developer product lookup"

	body, err := g.execute(ctx, apiRequest{
		purpose: purpose,
		method:  http.MethodGet,
		base:    g.apiBaseURL,
		path:    fmt.Sprintf("%s/%d", g.developerProductsPath(), id),
	})
	if err != nil {
		return remote.Snapshot{}, err
	}

	payload, err := decodeObject(purpose, body)
	if err != nil {
		return remote.Snapshot{}, err
	}

	return lookupSnapshot(payload, id, developerProductIDKeys), nil
}

func (g *OpenCloudGateway) createDeveloperProduct(ctx context.Context, payload remote.Payload) (int64, error) {
	purpose := "developer product create"

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
		path:        g.developerProductsPath(),
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

	id, ok := firstInt64(object, developerProductIDKeys...)
	if !ok || id <= 0 {
		return 0, validationError("developer product create response did not include an id", nil)
	}
	return id, nil
}

func (g *OpenCloudGateway) updateDeveloperProduct(ctx context.Context, id int64, payload remote.Payload) error {
	fields, err := formFields(payload)
	if err != nil {
		return err
	}
	contentType, body, err := encodeMultipart(fields, nil)
	if err != nil {
		return err
	}

	_, err = g.execute(ctx, apiRequest{
		purpose:     "developer product update",
		method:      http.MethodPatch,
		base:        g.apiBaseURL,
		path:        fmt.Sprintf("%s/%d", g.developerProductsPath(), id),
		contentType: contentType,
		body:        body,
	})
	return err
}
