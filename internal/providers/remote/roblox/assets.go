package roblox

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/crmarques/bloxsync/remote"
)

// UploadAsset starts an image asset upload and reports the long-running
// operation handling it. The platform usually answers before processing
// finishes, so the caller polls the returned handle until the outcome is
// terminal.
func (g *OpenCloudGateway) UploadAsset(ctx context.Context, upload remote.AssetUpload) (remote.OperationHandle, error) {
	purpose := "asset upload"

	if len(upload.Content) == 0 {
		return remote.OperationHandle{}, validationError("asset content is empty", nil)
	}
	if g.creatorType == "" {
		return remote.OperationHandle{}, validationError("asset uploads require a creator: set creator.id and creator.type", nil)
	}

	request, err := assetUploadRequest(upload, g.creatorID, g.creatorType)
	if err != nil {
		return remote.OperationHandle{}, err
	}

	contentType, body, err := encodeMultipart(map[string]string{"request": request}, &filePart{
		fieldName:   "fileContent",
		fileName:    upload.FileName,
		contentType: imageContentType(upload.FileName),
		content:     upload.Content,
	})
	if err != nil {
		return remote.OperationHandle{}, err
	}

	responseBody, err := g.execute(ctx, apiRequest{
		purpose:     purpose,
		method:      http.MethodPost,
		base:        g.apiBaseURL,
		path:        "/assets/v1/assets",
		contentType: contentType,
		body:        body,
	})
	if err != nil {
		return remote.OperationHandle{}, err
	}

	payload, err := decodeObject(purpose, responseBody)
	if err != nil {
		return remote.OperationHandle{}, err
	}

	handle := remote.OperationHandle{Initial: assetOutcome(payload)}
	if path, ok := firstString(payload, "path"); ok {
		handle.Path = strings.TrimSpace(path)
	}
	if handle.Path == "" && !handle.Initial.Terminal() {
		return remote.OperationHandle{}, assetError("asset upload response did not include an operation path", nil)
	}

	return handle, nil
}

func (g *OpenCloudGateway) PollOperation(ctx context.Context, handle remote.OperationHandle) (remote.AssetOutcome, error) {
	purpose := "asset operation poll"

	if strings.TrimSpace(handle.Path) == "" {
		return remote.AssetOutcome{}, assetError("asset operation handle has no path", nil)
	}

	body, err := g.execute(ctx, apiRequest{
		purpose: purpose,
		method:  http.MethodGet,
		base:    g.apiBaseURL,
		path:    "/assets/v1/" + strings.TrimPrefix(handle.Path, "/"),
	})
	if err != nil {
		return remote.AssetOutcome{}, err
	}

	payload, err := decodeObject(purpose, body)
	if err != nil {
		return remote.AssetOutcome{}, err
	}

	return assetOutcome(payload), nil
}

func assetUploadRequest(upload remote.AssetUpload, creatorID int64, creatorType string) (string, error) {
	creator := map[string]any{}
	if creatorType == "group" {
		creator["groupId"] = creatorID
	} else {
		creator["userId"] = creatorID
	}

	encoded, err := json.Marshal(map[string]any{
		"assetType":   "Image",
		"displayName": upload.DisplayName,
		"description": upload.Description,
		"creationContext": map[string]any{
			"creator": creator,
		},
	})
	if err != nil {
		return "", internalError("failed to encode asset upload request", err)
	}
	return string(encoded), nil
}

// assetOutcome reads an operation document. The assets API reports the new
// asset id as a decimal string, which coerceInt64 absorbs.
func assetOutcome(payload map[string]any) remote.AssetOutcome {
	if errObject, ok := payload["error"].(map[string]any); ok {
		reason, _ := firstString(errObject, "message")
		if strings.TrimSpace(reason) == "" {
			reason = "asset processing failed"
		}
		return remote.AssetOutcome{State: remote.AssetFailed, Reason: reason}
	}

	done, _ := payload["done"].(bool)
	if !done {
		return remote.AssetOutcome{State: remote.AssetPending}
	}

	response, ok := payload["response"].(map[string]any)
	if !ok {
		return remote.AssetOutcome{State: remote.AssetFailed, Reason: "asset operation finished without a result"}
	}

	id, ok := firstInt64(response, "assetId")
	if !ok || id <= 0 {
		return remote.AssetOutcome{State: remote.AssetFailed, Reason: "asset operation result did not include an asset id"}
	}

	return remote.AssetOutcome{State: remote.AssetSucceeded, AssetID: id}
}
