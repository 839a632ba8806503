package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/crmarques/bloxsync/debugctx"
	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/remote"
	"github.com/crmarques/bloxsync/resource"
)

var _ Exporter = (*DefaultExporter)(nil)

type DefaultExporter struct {
	gateway    remote.Gateway
	universeID int64
}

func NewDefaultExporter(gateway remote.Gateway, universeID int64) (*DefaultExporter, error) {
	if gateway == nil {
		return nil, internalError("exporter requires a gateway", nil)
	}
	if universeID <= 0 {
		return nil, validationError("exporter requires a positive universe id", nil)
	}
	return &DefaultExporter{gateway: gateway, universeID: universeID}, nil
}

func (e *DefaultExporter) Export(ctx context.Context, opts Options) ([]byte, error) {
	document, err := e.buildDocument(ctx)
	if err != nil {
		return nil, err
	}

	value, err := applyQuery(ctx, document, opts.Query)
	if err != nil {
		return nil, err
	}

	return render(value, opts.Format)
}

// buildDocument fans out the three independent list reads. This is the only
// concurrent remote access in the program, and it is read-only.
func (e *DefaultExporter) buildDocument(ctx context.Context) (map[string]any, error) {
	var passes, products, badges []remote.Snapshot

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		passes, err = e.gateway.List(groupCtx, resource.GamePass)
		return err
	})
	group.Go(func() error {
		var err error
		products, err = e.gateway.List(groupCtx, resource.DeveloperProduct)
		return err
	})
	group.Go(func() error {
		var err error
		badges, err = e.gateway.List(groupCtx, resource.Badge)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	debugctx.Printf(ctx, "export lists game_passes=%d developer_products=%d badges=%d",
		len(passes), len(products), len(badges))

	return map[string]any{
		"universe":           map[string]any{"id": int(e.universeID)},
		"game-passes":        gamePassDocuments(passes),
		"developer-products": developerProductDocuments(products),
		"badges":             badgeDocuments(badges),
	}, nil
}

func render(value any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, internalError("failed to render export as json", err)
		}
		return append(data, '\n'), nil
	case FormatLuau:
		return renderLuau(value)
	case FormatYAML, Format(""):
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			_ = encoder.Close()
			return nil, internalError("failed to render export as yaml", err)
		}
		if err := encoder.Close(); err != nil {
			return nil, internalError("failed to render export as yaml", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, validationError(fmt.Sprintf("unknown export format %q", format), nil)
	}
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
