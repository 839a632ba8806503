package roblox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/crmarques/bloxsync/remote"
	"github.com/crmarques/bloxsync/resource"
)

func (g *OpenCloudGateway) Get(ctx context.Context, kind resource.Kind, id int64) (remote.Snapshot, error) {
	if id <= 0 {
		return remote.Snapshot{}, validationError("resource id must be positive", nil)
	}

	switch kind {
	case resource.GamePass:
		return g.getGamePass(ctx, id)
	case resource.DeveloperProduct:
		return g.getDeveloperProduct(ctx, id)
	case resource.Badge:
		return g.getBadge(ctx, id)
	default:
		return remote.Snapshot{}, validationError(fmt.Sprintf("kind %s does not support direct lookup", kind), nil)
	}
}

func (g *OpenCloudGateway) List(ctx context.Context, kind resource.Kind) ([]remote.Snapshot, error) {
	switch kind {
	case resource.GamePass:
		return g.listGamePasses(ctx)
	case resource.DeveloperProduct:
		return g.listDeveloperProducts(ctx)
	case resource.Badge:
		return g.listBadges(ctx)
	default:
		return nil, validationError(fmt.Sprintf("kind %s does not support listing", kind), nil)
	}
}

func (g *OpenCloudGateway) Create(ctx context.Context, kind resource.Kind, payload remote.Payload) (int64, error) {
	switch kind {
	case resource.GamePass:
		return g.createGamePass(ctx, payload)
	case resource.DeveloperProduct:
		return g.createDeveloperProduct(ctx, payload)
	case resource.Badge:
		return g.createBadge(ctx, payload)
	default:
		return 0, validationError(fmt.Sprintf("kind %s does not support creation", kind), nil)
	}
}

func (g *OpenCloudGateway) Update(ctx context.Context, kind resource.Kind, id int64, payload remote.Payload) error {
	if id <= 0 {
		return validationError("resource id must be positive", nil)
	}

	switch kind {
	case resource.GamePass:
		return g.updateGamePass(ctx, id, payload)
	case resource.DeveloperProduct:
		return g.updateDeveloperProduct(ctx, id, payload)
	case resource.Badge:
		return g.updateBadge(ctx, id, payload)
	default:
		return validationError(fmt.Sprintf("kind %s does not support updates", kind), nil)
	}
}

// listPage describes one paged listing endpoint. The platform disagrees with
// itself on parameter names and envelope keys per endpoint, so each kind
// fills this in.
type listPage struct {
	purpose     string
	base        *url.URL
	path        string
	sizeParam   string
	sizeValue   string
	cursorParam string
	itemKeys    []string
	idKeys      []string
}

func (g *OpenCloudGateway) listPaged(ctx context.Context, page listPage) ([]remote.Snapshot, error) {
	snapshots := []remote.Snapshot{}
	cursor := ""

	for {
		query := url.Values{}
		query.Set(page.sizeParam, page.sizeValue)
		if cursor != "" {
			query.Set(page.cursorParam, cursor)
		}

		body, err := g.execute(ctx, apiRequest{
			purpose: page.purpose,
			method:  http.MethodGet,
			base:    page.base,
			path:    page.path,
			query:   query,
		})
		if err != nil {
			return nil, err
		}

		payload, err := decodeObject(page.purpose, body)
		if err != nil {
			return nil, err
		}

		items, _ := firstSlice(payload, page.itemKeys...)
		for _, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if snapshot, ok := itemSnapshot(item, page.idKeys); ok {
				snapshots = append(snapshots, snapshot)
			}
		}

		next, _ := firstString(payload, "nextPageCursor", "nextPageToken")
		next = strings.TrimSpace(next)
		if next == "" || next == cursor {
			break
		}
		cursor = next
	}

	return snapshots, nil
}

// lookupSnapshot is lenient on purpose: direct lookups only need to prove the
// resource exists, so a missing id or name in the body falls back to what the
// caller asked for.
func lookupSnapshot(payload map[string]any, requestedID int64, idKeys []string) remote.Snapshot {
	snapshot := remote.Snapshot{ID: requestedID, Fields: payload}
	if id, ok := firstInt64(payload, idKeys...); ok && id > 0 {
		snapshot.ID = id
	}
	if name, ok := firstString(payload, "name"); ok {
		snapshot.Name = name
	}
	return snapshot
}
