// Package reconcile drives the declared project state onto the platform:
// universe settings first, then the name-matched kinds, then place publishing
// as a separate flow.
package reconcile

import "context"

// Reconciler applies a loaded project. Sync covers the universe singleton and
// the name-matched kinds; PublishPlaces pushes place files and never touches
// the lock ledger.
type Reconciler interface {
	Sync(ctx context.Context, opts Options) (Report, error)
	PublishPlaces(ctx context.Context, opts Options) (Report, error)
}

type Options struct {
	// DryRun records every would-be action instead of performing it. Remote
	// reads still happen; remote writes and lock writes do not.
	DryRun bool
}
