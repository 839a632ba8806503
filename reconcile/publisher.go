package reconcile

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/crmarques/bloxsync/resource"
)

// PublishPlaces uploads each configured place file as a new published
// version. There is no name matching and no lock interaction: a declared
// place always republishes. One place's failure never blocks the rest.
func (r *DefaultReconciler) PublishPlaces(ctx context.Context, opts Options) (Report, error) {
	report := Report{DryRun: opts.DryRun}

	for _, place := range r.project.Places {
		if err := ctx.Err(); err != nil {
			return report, internalError("publish interrupted", err)
		}

		ref := resource.Ref{Kind: resource.Place, Name: strconv.FormatInt(place.PlaceID, 10)}

		if !place.PublishEnabled() {
			report.record(ref, OperationSkip, "publish disabled")
			continue
		}

		path := r.project.PlacePath(place)

		if opts.DryRun {
			if _, err := os.Stat(path); err != nil {
				report.fail(ref, OperationPublish, validationError(fmt.Sprintf("place file %q is not readable", path), err))
				continue
			}
			report.record(ref, OperationPublish, path)
			continue
		}

		contents, err := os.ReadFile(path)
		if err != nil {
			report.fail(ref, OperationPublish, validationError(fmt.Sprintf("cannot read place file %q", path), err))
			continue
		}

		version, err := r.gateway.PublishPlace(ctx, r.project.Universe.ID, place.PlaceID, contents)
		if err != nil {
			report.fail(ref, OperationPublish, err)
			continue
		}
		report.record(ref, OperationPublish, fmt.Sprintf("version %d", version))
	}

	return report, nil
}
