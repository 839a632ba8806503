package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/crmarques/bloxsync/faults"
)

// Build identity, overridable at build time via
// -ldflags "-X ...version.Version= -X ...version.Commit= -X ...version.BuildDate=".
var (
	Version   = "0.3.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// CheckConstraint verifies the running build against a semver constraint from
// the project config, e.g. ">= 0.3.0, < 1.0.0". An empty constraint passes.
func CheckConstraint(constraint string) error {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" {
		return nil
	}

	parsed, err := semver.NewConstraint(constraint)
	if err != nil {
		return faults.NewTypedError(faults.ValidationError, fmt.Sprintf("invalid required-version constraint %q", constraint), err)
	}

	current, err := semver.NewVersion(Version)
	if err != nil {
		return faults.NewTypedError(faults.InternalError, fmt.Sprintf("build version %q is not semver", Version), err)
	}

	if !parsed.Check(current) {
		return faults.NewTypedError(faults.ValidationError,
			fmt.Sprintf("bloxsync %s does not satisfy required-version %q", Version, constraint), nil)
	}
	return nil
}
