package remote

// Payload carries the wire fields of a create or update call. Builders set
// only the fields they mean to send; the provider encodes them in a
// deterministic order.
type Payload map[string]any

// Snapshot is the gateway's view of one remote resource. Fields retains the
// raw decoded item for callers that render more than the identity pair, such
// as the exporter.
type Snapshot struct {
	ID     int64
	Name   string
	Fields map[string]any
}

// AssetUpload describes one icon to push through the asset endpoint. Content
// is read by the caller so the gateway never touches the local filesystem.
type AssetUpload struct {
	DisplayName string
	Description string
	FileName    string
	Content     []byte
}

// OperationHandle identifies a server-side asset processing operation. The
// initial upload response may already be terminal, so the handle carries it.
type OperationHandle struct {
	Path    string
	Initial AssetOutcome
}

type AssetState string

const (
	AssetPending   AssetState = "pending"
	AssetSucceeded AssetState = "succeeded"
	AssetFailed    AssetState = "failed"
)

// AssetOutcome is the state of an asset operation at one observation. It is
// never persisted; it collapses into a lock entry update or an error.
type AssetOutcome struct {
	State   AssetState
	AssetID int64
	Reason  string
}

// Terminal reports whether polling can stop.
func (o AssetOutcome) Terminal() bool {
	return o.State == AssetSucceeded || o.State == AssetFailed
}
