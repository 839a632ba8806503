package reconcile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crmarques/bloxsync/debugctx"
	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/fingerprint"
	"github.com/crmarques/bloxsync/remote"
	"github.com/crmarques/bloxsync/resource"
	"github.com/crmarques/bloxsync/state"
)

func (r *DefaultReconciler) syncKind(ctx context.Context, kind resource.Kind, opts Options, report *Report) error {
	specs := r.entrySpecs(kind)
	if len(specs) == 0 {
		return nil
	}

	debugctx.Printf(ctx, "reconcile kind=%s entries=%d", kind, len(specs))
	index := &nameIndex{gateway: r.gateway, kind: kind, dryRun: opts.DryRun, report: report}

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return internalError("sync interrupted", err)
		}
		if err := r.syncEntry(ctx, kind, spec, index, opts, report); err != nil {
			return err
		}
	}
	return nil
}

func (r *DefaultReconciler) syncEntry(ctx context.Context, kind resource.Kind, spec entrySpec, index *nameIndex, opts Options, report *Report) error {
	ref := resource.Ref{Kind: kind, Name: spec.name}

	entry, known := r.store.Lookup(kind, spec.name)

	if !known {
		remoteID, found, err := index.lookup(ctx, spec.name)
		if err != nil {
			report.fail(ref, OperationAdopt, err)
			return nil
		}

		if !found {
			return r.createEntry(ctx, ref, spec, opts, report)
		}

		// A remote resource already answers to this name; record its id
		// instead of creating a duplicate, then continue as an update.
		entry = state.Entry{RemoteID: remoteID}
		if !opts.DryRun {
			r.store.Upsert(kind, spec.name, entry)
			if err := r.store.Persist(ctx); err != nil {
				return err
			}
		}
		report.record(ref, OperationAdopt, fmt.Sprintf("remote-id %d", remoteID))
	}

	if opts.DryRun {
		report.record(ref, OperationUpdate, fmt.Sprintf("remote-id %d", entry.RemoteID))
		return r.syncIcon(ctx, ref, spec, entry, opts, report)
	}

	if err := r.gateway.Update(ctx, kind, entry.RemoteID, spec.update); err != nil {
		if faults.IsCategory(err, faults.NotFoundError) {
			return r.handleMissingRemote(ctx, ref, spec, entry, opts, report, err)
		}
		report.fail(ref, OperationUpdate, err)
		return nil
	}

	report.record(ref, OperationUpdate, fmt.Sprintf("remote-id %d", entry.RemoteID))
	return r.syncIcon(ctx, ref, spec, entry, opts, report)
}

func (r *DefaultReconciler) createEntry(ctx context.Context, ref resource.Ref, spec entrySpec, opts Options, report *Report) error {
	if opts.DryRun {
		report.record(ref, OperationCreate, "")
		return r.syncIcon(ctx, ref, spec, state.Entry{}, opts, report)
	}

	remoteID, err := r.gateway.Create(ctx, ref.Kind, spec.create)
	if err != nil {
		report.fail(ref, OperationCreate, err)
		return nil
	}

	entry := state.Entry{RemoteID: remoteID}
	r.store.Upsert(ref.Kind, ref.Name, entry)
	if err := r.store.Persist(ctx); err != nil {
		return err
	}

	report.record(ref, OperationCreate, fmt.Sprintf("remote-id %d", remoteID))
	return r.syncIcon(ctx, ref, spec, entry, opts, report)
}

// handleMissingRemote resolves a lock entry whose remote id the platform no
// longer recognizes. Default policy surfaces the inconsistency; the opt-in
// recreate policy re-creates after confirming the id is really gone, so a
// transient 404 cannot spawn a duplicate.
func (r *DefaultReconciler) handleMissingRemote(ctx context.Context, ref resource.Ref, spec entrySpec, entry state.Entry, opts Options, report *Report, updateErr error) error {
	if !r.project.RecreateMissing() {
		report.fail(ref, OperationUpdate, stateError(fmt.Sprintf(
			"%s points at remote-id %d which the platform reports missing; remove the lock entry or set on-missing-remote: recreate",
			ref, entry.RemoteID), updateErr))
		return nil
	}

	if _, err := r.gateway.Get(ctx, ref.Kind, entry.RemoteID); err == nil {
		report.fail(ref, OperationRecreate, stateError(fmt.Sprintf(
			"%s remote-id %d failed to update as missing but still resolves; refusing to re-create",
			ref, entry.RemoteID), updateErr))
		return nil
	} else if !faults.IsCategory(err, faults.NotFoundError) {
		report.fail(ref, OperationRecreate, err)
		return nil
	}

	remoteID, err := r.gateway.Create(ctx, ref.Kind, spec.create)
	if err != nil {
		report.fail(ref, OperationRecreate, err)
		return nil
	}

	fresh := state.Entry{RemoteID: remoteID}
	r.store.Upsert(ref.Kind, ref.Name, fresh)
	if err := r.store.Persist(ctx); err != nil {
		return err
	}

	debugctx.Printf(ctx, "recreated %s remote_id=%d (was %d)", ref, remoteID, entry.RemoteID)
	report.record(ref, OperationRecreate, fmt.Sprintf("remote-id %d", remoteID))
	return r.syncIcon(ctx, ref, spec, fresh, opts, report)
}

func (r *DefaultReconciler) syncIcon(ctx context.Context, ref resource.Ref, spec entrySpec, entry state.Entry, opts Options, report *Report) error {
	if spec.icon == "" {
		return nil
	}

	path := r.project.IconPath(spec.icon)
	hash, err := fingerprint.File(path)
	if err != nil {
		report.fail(ref, OperationIcon, err)
		return nil
	}

	if entry.IconMatches(hash.String()) && iconAssociated(ref.Kind, entry) {
		report.record(ref, OperationSkip, "icon unchanged")
		return nil
	}

	if opts.DryRun {
		report.record(ref, OperationIcon, spec.icon)
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		report.fail(ref, OperationIcon, assetError(fmt.Sprintf("cannot read icon file %q", path), err))
		return nil
	}
	upload := remote.AssetUpload{
		DisplayName: spec.name,
		Description: fmt.Sprintf("%s icon managed by bloxsync", ref.Kind.Display()),
		FileName:    filepath.Base(path),
		Content:     content,
	}

	var detail string
	if ref.Kind == resource.Badge {
		if err := r.gateway.SetBadgeIcon(ctx, entry.RemoteID, upload); err != nil {
			report.fail(ref, OperationIcon, err)
			return nil
		}
		entry.IconHash = hash.String()
		entry.IconAssetID = 0
		detail = "badge icon replaced"
	} else {
		assetID, err := r.pipeline.Upload(ctx, upload)
		if err != nil {
			report.fail(ref, OperationIcon, err)
			return nil
		}
		if err := r.gateway.Update(ctx, ref.Kind, entry.RemoteID, remote.Payload{"iconAssetId": assetID}); err != nil {
			report.fail(ref, OperationIcon, err)
			return nil
		}
		entry.IconHash = hash.String()
		entry.IconAssetID = assetID
		detail = fmt.Sprintf("asset %d", assetID)
	}

	r.store.Upsert(ref.Kind, ref.Name, entry)
	if err := r.store.Persist(ctx); err != nil {
		return err
	}

	report.record(ref, OperationIcon, detail)
	return nil
}

// Badges have no separate association step, so a fingerprint match alone
// proves the icon is current. Passes and products also need the recorded
// asset id that the follow-up association wrote.
func iconAssociated(kind resource.Kind, entry state.Entry) bool {
	if kind == resource.Badge {
		return true
	}
	return entry.IconAssetID > 0
}

// nameIndex lazily loads the remote listing for one kind. The load happens at
// most once per run and only when some configured name is absent from the
// lock; adoption consults it to avoid duplicate creates after lock loss.
type nameIndex struct {
	gateway remote.Gateway
	kind    resource.Kind
	dryRun  bool
	report  *Report

	loaded bool
	failed error
	byName map[string]int64
}

func (x *nameIndex) lookup(ctx context.Context, name string) (int64, bool, error) {
	if !x.loaded {
		x.load(ctx)
	}
	if x.failed != nil {
		return 0, false, x.failed
	}
	id, ok := x.byName[name]
	return id, ok, nil
}

func (x *nameIndex) load(ctx context.Context) {
	x.loaded = true
	x.byName = map[string]int64{}

	snapshots, err := x.gateway.List(ctx, x.kind)
	if err != nil {
		if x.dryRun {
			x.report.warnf("%s listing unavailable, planning against an empty index: %v", x.kind.Display(), err)
			return
		}
		x.failed = err
		return
	}

	for _, snapshot := range snapshots {
		// First listing wins when the remote side holds duplicate names.
		if _, exists := x.byName[snapshot.Name]; exists {
			continue
		}
		x.byName[snapshot.Name] = snapshot.ID
	}
	debugctx.Printf(ctx, "name index kind=%s size=%d", x.kind, len(x.byName))
}
