// Package fingerprint computes content digests for binary assets so the
// reconciler can tell whether an icon actually changed before paying for an
// upload. Digests cover exact byte content only; filesystem metadata such as
// mtime or permissions never influences the result.
package fingerprint

import (
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/crmarques/bloxsync/faults"
)

// Bytes returns the canonical digest of the given content.
func Bytes(content []byte) digest.Digest {
	return digest.FromBytes(content)
}

// File returns the canonical digest of the file's content. A missing or
// unreadable file is an asset error scoped to the owning entry's icon step.
func File(path string) (digest.Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", assetError(fmt.Sprintf("cannot read icon file %q", path), err)
	}
	defer file.Close()

	computed, err := digest.Canonical.FromReader(file)
	if err != nil {
		return "", assetError(fmt.Sprintf("cannot fingerprint icon file %q", path), err)
	}
	return computed, nil
}

// Validate reports whether a stored digest string is well formed. Stored
// hashes that fail to parse are treated as absent rather than corrupt so that
// a hand-edited lock entry degrades to a re-upload, not a failed run.
func Validate(value string) bool {
	if value == "" {
		return false
	}
	_, err := digest.Parse(value)
	return err == nil
}

func assetError(message string, cause error) error {
	return faults.NewTypedError(faults.AssetError, message, cause)
}
