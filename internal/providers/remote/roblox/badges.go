package roblox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/crmarques/bloxsync/remote"
)

var badgeIDKeys = []string{"id", "badgeId"}

func (g *OpenCloudGateway) listBadges(ctx context.Context) ([]remote.Snapshot, error) {
	return g.listPaged(ctx, listPage{
		purpose:     "badge list",
		base:        g.badgesBaseURL,
		path:        fmt.Sprintf("/v1/universes/%d/badges", g.universeID),
		sizeParam:   "limit",
		sizeValue:   "100",
		cursorParam: "cursor",
		itemKeys:    []string{"data", "badges"},
		idKeys:      badgeIDKeys,
	})
}

func (g *OpenCloudGateway) getBadge(ctx context.Context, id int64) (remote.Snapshot, error) {
	purpose := "badge lookup"

	body, err := g.execute(ctx, apiRequest{
		purpose: purpose,
		method:  http.MethodGet,
		base:    g.badgesBaseURL,
		path:    fmt.Sprintf("/v1/badges/%d", id),
	})
	if err != nil {
		return remote.Snapshot{}, err
	}

	payload, err := decodeObject(purpose, body)
	if err != nil {
		return remote.Snapshot{}, err
	}

	return lookupSnapshot(payload, id, badgeIDKeys), nil
}

// createBadge goes through the legacy endpoint; the platform charges the
// 100 Robux creation fee against the configured payment source.
func (g *OpenCloudGateway) createBadge(ctx context.Context, payload remote.Payload) (int64, error) {
	purpose := "badge create"

	source, _ := payload["paymentSource"].(string)
	sourceType, err := badgePaymentSourceType(source)
	if err != nil {
		return 0, err
	}

	fields := map[string]string{"paymentSourceType": sourceType}
	for key, value := range payload {
		if key == "paymentSource" {
			continue
		}
		text, err := formValue(key, value)
		if err != nil {
			return 0, err
		}
		fields[key] = text
	}

	contentType, body, err := encodeMultipart(fields, nil)
	if err != nil {
		return 0, err
	}

	responseBody, err := g.execute(ctx, apiRequest{
		purpose:     purpose,
		method:      http.MethodPost,
		base:        g.apiBaseURL,
		path:        fmt.Sprintf("/legacy-badges/v1/universes/%d/badges", g.universeID),
		contentType: contentType,
		body:        body,
	})
	if err != nil {
		return 0, decorateBadgePaymentError(err)
	}

	object, err := decodeObject(purpose, responseBody)
	if err != nil {
		return 0, err
	}

	id, ok := firstInt64(object, badgeIDKeys...)
	if !ok || id <= 0 {
		return 0, validationError("badge create response did not include an id", nil)
	}
	return id, nil
}

func (g *OpenCloudGateway) updateBadge(ctx context.Context, id int64, payload remote.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return internalError("failed to encode badge update", err)
	}

	_, err = g.execute(ctx, apiRequest{
		purpose: "badge update",
		method:  http.MethodPatch,
		base:    g.apiBaseURL,
		path:    fmt.Sprintf("/legacy-badges/v1/badges/%d", id),
		body:    body,
	})
	return err
}

func (g *OpenCloudGateway) SetBadgeIcon(ctx context.Context, badgeID int64, icon remote.AssetUpload) error {
	if badgeID <= 0 {
		return validationError("badge id must be positive", nil)
	}
	if len(icon.Content) == 0 {
		return validationError("badge icon content is empty", nil)
	}

	contentType, body, err := encodeMultipart(nil, &filePart{
		fieldName:   "request.files",
		fileName:    icon.FileName,
		contentType: imageContentType(icon.FileName),
		content:     icon.Content,
	})
	if err != nil {
		return err
	}

	_, err = g.execute(ctx, apiRequest{
		purpose:     "badge icon upload",
		method:      http.MethodPost,
		base:        g.apiBaseURL,
		path:        fmt.Sprintf("/legacy-publish/v1/badges/%d/icon", badgeID),
		contentType: contentType,
		body:        body,
	})
	return err
}

func badgePaymentSourceType(source string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "user":
		return "1", nil
	case "group":
		return "2", nil
	default:
		return "", validationError(fmt.Sprintf("badge payment source %q must be user or group", source), nil)
	}
}

// decorateBadgePaymentError recognizes the platform's refusal to charge the
// badge creation fee and folds the fix into the message.
func decorateBadgePaymentError(err error) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if strings.Contains(message, "Payment source is invalid") ||
		strings.Contains(message, `"code":16`) ||
		strings.Contains(message, `"code": 16`) {
		return validationError("badge creation fee was declined: point badge-payment-source at a user or group holding at least 100 Robux", err)
	}
	return err
}
