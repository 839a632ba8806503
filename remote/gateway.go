package remote

import (
	"context"

	"github.com/crmarques/bloxsync/resource"
)

// Gateway is the full capability set the reconciler, asset pipeline, place
// publisher, and exporter need from the platform. Get, List, Create, and
// Update operate on the name-matched kinds; the remaining operations are
// kind-specific by nature.
type Gateway interface {
	Get(ctx context.Context, kind resource.Kind, id int64) (Snapshot, error)
	List(ctx context.Context, kind resource.Kind) ([]Snapshot, error)
	Create(ctx context.Context, kind resource.Kind, payload Payload) (int64, error)
	Update(ctx context.Context, kind resource.Kind, id int64, payload Payload) error
	UploadAsset(ctx context.Context, upload AssetUpload) (OperationHandle, error)
	PollOperation(ctx context.Context, handle OperationHandle) (AssetOutcome, error)
	SetBadgeIcon(ctx context.Context, badgeID int64, icon AssetUpload) error
	UpdateUniverse(ctx context.Context, universeID int64, patch Payload) error
	PublishPlace(ctx context.Context, universeID int64, placeID int64, contents []byte) (int64, error)
	Ping(ctx context.Context) error
}
