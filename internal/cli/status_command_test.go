package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/crmarques/bloxsync/history"
	"github.com/crmarques/bloxsync/resource"
	"github.com/crmarques/bloxsync/state"
)

func ledgerForStatus() *testLockStore {
	store := newTestLockStore()
	store.Upsert(resource.GamePass, "VIP", state.Entry{RemoteID: 9001, IconHash: "sha256:abc", IconAssetID: 501})
	store.Upsert(resource.GamePass, "Retired", state.Entry{RemoteID: 9002})
	store.Upsert(resource.Badge, "Welcome", state.Entry{RemoteID: 3001})
	return store
}

func TestStatusSummarizesLedger(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Store = ledgerForStatus()

	output, err := executeForTest(deps, "", "status")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}

	if !strings.Contains(output, "universe: 4242 (settings not yet applied)") {
		t.Fatalf("expected universe line, got %q", output)
	}
	if !strings.Contains(output, "lock: bloxsync-lock.yaml") {
		t.Fatalf("expected lock path line, got %q", output)
	}
	for _, kind := range []string{"game-pass", "developer-product", "badge"} {
		if !strings.Contains(output, kind) {
			t.Fatalf("expected %q row in status table, got %q", kind, output)
		}
	}
	if strings.Contains(output, "history:") {
		t.Fatalf("expected no history line without a recorder, got %q", output)
	}
}

func TestStatusCountsPerKind(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Store = ledgerForStatus()

	output, err := executeForTest(deps, "", "status", "-o", "json")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}

	var decoded struct {
		UniverseID     int64 `json:"universe_id"`
		UniverseCached bool  `json:"universe_cached"`
		Kinds          []struct {
			Kind          string `json:"kind"`
			Declared      int    `json:"declared"`
			Locked        int    `json:"locked"`
			IconsRecorded int    `json:"icons_recorded"`
		} `json:"kinds"`
	}
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("status json output did not parse: %v\n%s", err, output)
	}

	if decoded.UniverseID != 4242 {
		t.Fatalf("expected universe id 4242, got %d", decoded.UniverseID)
	}
	if decoded.UniverseCached {
		t.Fatal("expected universe settings to be uncached")
	}
	if len(decoded.Kinds) != 3 {
		t.Fatalf("expected three kind rows, got %d", len(decoded.Kinds))
	}

	byKind := map[string][3]int{}
	for _, item := range decoded.Kinds {
		byKind[item.Kind] = [3]int{item.Declared, item.Locked, item.IconsRecorded}
	}
	if got := byKind["game-pass"]; got != [3]int{2, 2, 1} {
		t.Fatalf("expected game-pass counts {2 2 1}, got %v", got)
	}
	if got := byKind["developer-product"]; got != [3]int{1, 0, 0} {
		t.Fatalf("expected developer-product counts {1 0 0}, got %v", got)
	}
	if got := byKind["badge"]; got != [3]int{1, 1, 0} {
		t.Fatalf("expected badge counts {1 1 0}, got %v", got)
	}
}

func TestStatusReportsCachedUniverse(t *testing.T) {
	t.Parallel()

	store := newTestLockStore()
	store.SetUniverse(state.UniverseSnapshot{})
	deps := testDeps()
	deps.Store = store

	output, err := executeForTest(deps, "", "status")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if !strings.Contains(output, "universe: 4242 (settings cached)") {
		t.Fatalf("expected cached universe note, got %q", output)
	}
}

func TestStatusShowsHistory(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Recorder = &testRecorder{status: history.Status{
		Branch:    "main",
		HasRemote: true,
		Ahead:     1,
		Behind:    2,
	}}

	output, err := executeForTest(deps, "", "status")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if !strings.Contains(output, "history: branch main, clean, 1 ahead, 2 behind") {
		t.Fatalf("expected history line, got %q", output)
	}
}

func TestStatusShowsUncommittedWithoutRemote(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Recorder = &testRecorder{status: history.Status{
		Branch:         "main",
		HasUncommitted: true,
	}}

	output, err := executeForTest(deps, "", "status")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if !strings.Contains(output, "history: branch main, uncommitted changes") {
		t.Fatalf("expected uncommitted note, got %q", output)
	}
	if strings.Contains(output, "ahead") {
		t.Fatalf("expected no remote counters without a remote, got %q", output)
	}
}

func TestStatusHistoryErrorDoesNotFail(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Recorder = &testRecorder{statusErr: errors.New("repository has no commits yet")}

	output, err := executeForTest(deps, "", "status")
	if err != nil {
		t.Fatalf("expected status to succeed despite history error, got %v", err)
	}
	if !strings.Contains(output, "history: repository has no commits yet") {
		t.Fatalf("expected history error line, got %q", output)
	}
}
