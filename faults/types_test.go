package faults

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsCategory(t *testing.T) {
	t.Parallel()

	err := NewTypedError(ValidationError, "invalid input", nil)
	if !IsCategory(err, ValidationError) {
		t.Fatalf("expected validation category match")
	}
	if IsCategory(err, NotFoundError) {
		t.Fatalf("expected not-found category mismatch")
	}

	wrapped := errors.New("wrap: " + err.Error())
	if IsCategory(wrapped, ValidationError) {
		t.Fatalf("plain wrapped string error must not match typed category")
	}

	joined := errors.Join(err, errors.New("other"))
	if !IsCategory(joined, ValidationError) {
		t.Fatalf("expected category match through errors.Join")
	}
}

func TestIsCategoryDomainCategories(t *testing.T) {
	t.Parallel()

	assetErr := NewTypedError(AssetError, "icon processing failed", nil)
	if !IsCategory(assetErr, AssetError) {
		t.Fatalf("expected asset category match")
	}

	stateErr := fmt.Errorf("apply: %w", NewTypedError(StateError, "lock file is corrupt", nil))
	if !IsCategory(stateErr, StateError) {
		t.Fatalf("expected state category match through fmt wrap")
	}
	if IsCategory(stateErr, AssetError) {
		t.Fatalf("state error must not match asset category")
	}
}

func TestTypedErrorMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  *TypedError
		want string
	}{
		{name: "message and cause", err: NewTypedError(TransportError, "request failed", errors.New("timeout")), want: "request failed: timeout"},
		{name: "message only", err: NewTypedError(ValidationError, "name is required", nil), want: "name is required"},
		{name: "cause only", err: NewTypedError(InternalError, "", errors.New("boom")), want: "boom"},
		{name: "category fallback", err: NewTypedError(StateError, "", nil), want: "StateError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.err.Error(); got != tc.want {
				t.Fatalf("unexpected message: got %q want %q", got, tc.want)
			}
		})
	}
}
