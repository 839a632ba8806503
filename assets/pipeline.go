// Package assets drives image uploads through the platform's long-running
// operations.
package assets

import (
	"context"

	"github.com/crmarques/bloxsync/remote"
)

// Pipeline uploads image content and waits until the platform finishes
// processing it, reporting the resulting asset id.
type Pipeline interface {
	Upload(ctx context.Context, upload remote.AssetUpload) (int64, error)
}
