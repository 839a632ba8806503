package reconcile

import (
	"context"

	"github.com/crmarques/bloxsync/assets"
	"github.com/crmarques/bloxsync/config"
	"github.com/crmarques/bloxsync/debugctx"
	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/remote"
	"github.com/crmarques/bloxsync/resource"
	"github.com/crmarques/bloxsync/state"
)

var _ Reconciler = (*DefaultReconciler)(nil)

// DefaultReconciler walks the project sequentially: universe, then each
// named kind in declaration order. The lock store is its single shared
// resource; it persists a checkpoint after every lock mutation so an
// interrupted run loses at most the entry in flight.
type DefaultReconciler struct {
	project   config.Project
	gateway   remote.Gateway
	store     state.Store
	pipeline  assets.Pipeline
	hasCookie bool
}

type ReconcilerOption func(*DefaultReconciler)

// WithUniverseCookie tells the reconciler whether the elevated cookie
// credential is available. Without it the universe step is skipped with a
// warning; its absence is a configuration state, not a failure.
func WithUniverseCookie(available bool) ReconcilerOption {
	return func(r *DefaultReconciler) {
		if r == nil {
			return
		}
		r.hasCookie = available
	}
}

func NewDefaultReconciler(project config.Project, gateway remote.Gateway, store state.Store, pipeline assets.Pipeline, opts ...ReconcilerOption) (*DefaultReconciler, error) {
	if gateway == nil {
		return nil, internalError("reconciler requires a gateway", nil)
	}
	if store == nil {
		return nil, internalError("reconciler requires a lock store", nil)
	}
	if pipeline == nil {
		return nil, internalError("reconciler requires an asset pipeline", nil)
	}

	reconciler := &DefaultReconciler{
		project:  project,
		gateway:  gateway,
		store:    store,
		pipeline: pipeline,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reconciler)
	}

	return reconciler, nil
}

func (r *DefaultReconciler) Sync(ctx context.Context, opts Options) (Report, error) {
	report := Report{DryRun: opts.DryRun}

	debugctx.Printf(ctx, "sync start universe=%d dry_run=%t", r.project.Universe.ID, opts.DryRun)

	if err := r.syncUniverse(ctx, opts, &report); err != nil {
		return report, err
	}

	for _, kind := range resource.NamedKinds() {
		if err := r.syncKind(ctx, kind, opts, &report); err != nil {
			return report, err
		}
	}

	debugctx.Printf(ctx, "sync done actions=%d warnings=%d", len(report.Actions), len(report.Warnings))
	return report, nil
}

func (r *DefaultReconciler) syncUniverse(ctx context.Context, opts Options, report *Report) error {
	if !r.project.Universe.HasSettings() {
		return nil
	}

	ref := resource.Ref{Kind: resource.Universe, Name: "settings"}

	if !r.hasCookie {
		report.warnf("universe settings skipped: the cookie credential is not set")
		report.record(ref, OperationSkip, "cookie credential not set")
		return nil
	}

	patch := universePatch(r.project.Universe)
	if len(patch) == 0 {
		report.record(ref, OperationSkip, "no remotely updatable fields declared")
		return nil
	}

	if opts.DryRun {
		report.record(ref, OperationUpdate, "universe configuration")
		return nil
	}

	if err := r.gateway.UpdateUniverse(ctx, r.project.Universe.ID, patch); err != nil {
		report.fail(ref, OperationUpdate, err)
		return nil
	}

	r.store.SetUniverse(universeSnapshot(r.project.Universe))
	if err := r.store.Persist(ctx); err != nil {
		return err
	}
	report.record(ref, OperationUpdate, "universe configuration")
	return nil
}

func stateError(message string, cause error) error {
	return faults.NewTypedError(faults.StateError, message, cause)
}

func assetError(message string, cause error) error {
	return faults.NewTypedError(faults.AssetError, message, cause)
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
