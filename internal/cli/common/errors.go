package common

import (
	"github.com/crmarques/bloxsync/faults"
)

func ValidationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func AuthError(message string, cause error) error {
	return faults.NewTypedError(faults.AuthError, message, cause)
}

func ConflictError(message string, cause error) error {
	return faults.NewTypedError(faults.ConflictError, message, cause)
}
