// Package history keeps the lock ledger under version control so every
// applied change has a commit trail.
package history

import "context"

// Recorder commits lock changes in the project's git repository. It never
// touches other files: project configuration stays under the user's control.
type Recorder interface {
	// Init creates the repository if the project directory has none.
	Init(ctx context.Context) error
	// Record commits the lock file and reports whether a commit was made.
	// An unchanged lock records nothing.
	Record(ctx context.Context, message string) (bool, error)
	Status(ctx context.Context) (Status, error)
}

// Status describes the project repository. Ahead and Behind compare the
// current branch against its locally known remote-tracking ref; both stay
// zero when no remote is configured.
type Status struct {
	Branch         string
	HasUncommitted bool
	HasRemote      bool
	Ahead          int
	Behind         int
}
