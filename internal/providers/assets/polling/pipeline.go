package polling

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/crmarques/bloxsync/assets"
	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/remote"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultPollAttempts = 30
)

var _ assets.Pipeline = (*Pipeline)(nil)

// Pipeline uploads an image and polls its operation at a fixed cadence until
// it settles or the attempt budget runs out.
type Pipeline struct {
	gateway  remote.Gateway
	interval time.Duration
	attempts int
}

type PipelineOption func(*Pipeline)

func WithPollInterval(interval time.Duration) PipelineOption {
	return func(p *Pipeline) {
		if p == nil || interval <= 0 {
			return
		}
		p.interval = interval
	}
}

func WithPollAttempts(attempts int) PipelineOption {
	return func(p *Pipeline) {
		if p == nil || attempts <= 0 {
			return
		}
		p.attempts = attempts
	}
}

func NewPipeline(gateway remote.Gateway, opts ...PipelineOption) (*Pipeline, error) {
	if gateway == nil {
		return nil, internalError("asset pipeline requires a gateway", nil)
	}

	pipeline := &Pipeline{
		gateway:  gateway,
		interval: defaultPollInterval,
		attempts: defaultPollAttempts,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(pipeline)
	}

	return pipeline, nil
}

func (p *Pipeline) Upload(ctx context.Context, upload remote.AssetUpload) (int64, error) {
	handle, err := p.gateway.UploadAsset(ctx, upload)
	if err != nil {
		return 0, err
	}
	if handle.Initial.Terminal() {
		return settleOutcome(upload, handle.Initial)
	}

	wait := backoff.NewConstantBackOff(p.interval)
	for attempt := 0; attempt < p.attempts; attempt++ {
		select {
		case <-ctx.Done():
			return 0, assetError(fmt.Sprintf("wait for asset %q was canceled", upload.DisplayName), ctx.Err())
		case <-time.After(wait.NextBackOff()):
		}

		outcome, err := p.gateway.PollOperation(ctx, handle)
		if err != nil {
			return 0, err
		}
		if outcome.Terminal() {
			return settleOutcome(upload, outcome)
		}
	}

	return 0, assetError(fmt.Sprintf("asset %q did not finish processing after %d checks", upload.DisplayName, p.attempts), nil)
}

func settleOutcome(upload remote.AssetUpload, outcome remote.AssetOutcome) (int64, error) {
	switch outcome.State {
	case remote.AssetSucceeded:
		if outcome.AssetID <= 0 {
			return 0, assetError(fmt.Sprintf("asset %q succeeded without an asset id", upload.DisplayName), nil)
		}
		return outcome.AssetID, nil
	case remote.AssetFailed:
		reason := outcome.Reason
		if reason == "" {
			reason = "asset processing failed"
		}
		return 0, assetError(fmt.Sprintf("asset %q was rejected: %s", upload.DisplayName, reason), nil)
	default:
		return 0, internalError(fmt.Sprintf("asset %q outcome %q is not terminal", upload.DisplayName, outcome.State), nil)
	}
}

func assetError(message string, cause error) error {
	return faults.NewTypedError(faults.AssetError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
