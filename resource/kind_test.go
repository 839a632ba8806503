package resource

import "testing"

func TestNamedKindsOrder(t *testing.T) {
	t.Parallel()

	kinds := NamedKinds()
	want := []Kind{GamePass, DeveloperProduct, Badge}
	if len(kinds) != len(want) {
		t.Fatalf("unexpected kind count: got %d want %d", len(kinds), len(want))
	}
	for i, kind := range want {
		if kinds[i] != kind {
			t.Fatalf("unexpected kind at %d: got %s want %s", i, kinds[i], kind)
		}
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	kind, err := ParseKind(" Game-Pass ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kind != GamePass {
		t.Fatalf("unexpected kind: %s", kind)
	}

	if _, err := ParseKind("mesh"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRefString(t *testing.T) {
	t.Parallel()

	ref := Ref{Kind: DeveloperProduct, Name: "Gems"}
	if got := ref.String(); got != `Developer Product "Gems"` {
		t.Fatalf("unexpected ref rendering: %q", got)
	}
}
