package roblox

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// PublishPlace uploads a place file as a new published version and reports
// the version number the platform assigned.
func (g *OpenCloudGateway) PublishPlace(ctx context.Context, universeID int64, placeID int64, contents []byte) (int64, error) {
	purpose := "place publish"

	if universeID <= 0 {
		return 0, validationError("universe id must be positive", nil)
	}
	if placeID <= 0 {
		return 0, validationError("place id must be positive", nil)
	}
	if len(contents) == 0 {
		return 0, validationError("place file content is empty", nil)
	}

	body, err := g.execute(ctx, apiRequest{
		purpose:     purpose,
		method:      http.MethodPost,
		base:        g.apiBaseURL,
		path:        fmt.Sprintf("/universes/v1/%d/places/%d/versions", universeID, placeID),
		query:       url.Values{"versionType": {"Published"}},
		contentType: placeContentType(contents),
		body:        contents,
	})
	if err != nil {
		return 0, err
	}

	payload, err := decodeObject(purpose, body)
	if err != nil {
		return 0, err
	}

	version, ok := firstInt64(payload, "versionNumber")
	if !ok || version <= 0 {
		return 0, validationError("place publish response did not include a version number", nil)
	}
	return version, nil
}

// placeContentType sniffs the serialization format. Binary place files open
// with the "<roblox!" magic; the XML format opens with a plain tag.
func placeContentType(contents []byte) string {
	if bytes.HasPrefix(contents, []byte("<roblox!")) {
		return "application/octet-stream"
	}
	if bytes.HasPrefix(bytes.TrimLeft(contents, " \t\r\n"), []byte("<")) {
		return "application/xml"
	}
	return "application/octet-stream"
}
