package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/reconcile"
	"github.com/crmarques/bloxsync/resource"
)

func TestSyncDryRunRendersPlan(t *testing.T) {
	t.Parallel()

	reconciler := &testReconciler{syncReport: sampleReport()}
	deps := testDeps()
	deps.Reconciler = reconciler

	output, err := executeForTest(deps, "", "sync", "--dry-run")
	if err != nil {
		t.Fatalf("sync --dry-run returned error: %v", err)
	}

	if len(reconciler.syncOpts) != 1 || !reconciler.syncOpts[0].DryRun {
		t.Fatalf("expected one dry-run sync call, got %#v", reconciler.syncOpts)
	}
	if !strings.Contains(output, "VIP") || !strings.Contains(output, "create") {
		t.Fatalf("expected planned actions in output, got %q", output)
	}
	if !strings.Contains(output, "plan: 1 create, 1 update, 1 icon-upload") {
		t.Fatalf("expected plan summary line, got %q", output)
	}
}

func TestSyncAppliesAndSummarizes(t *testing.T) {
	t.Parallel()

	reconciler := &testReconciler{syncReport: sampleReport()}
	deps := testDeps()
	deps.Reconciler = reconciler

	output, err := executeForTest(deps, "", "sync")
	if err != nil {
		t.Fatalf("sync returned error: %v", err)
	}

	if len(reconciler.syncOpts) != 1 || reconciler.syncOpts[0].DryRun {
		t.Fatalf("expected one applied sync call, got %#v", reconciler.syncOpts)
	}
	if !strings.Contains(output, "applied: 1 create, 1 update, 1 icon-upload") {
		t.Fatalf("expected applied summary line, got %q", output)
	}
}

func TestSyncRendersWarnings(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.Warnings = []string{"2 remote game-pass entries are not declared locally"}
	reconciler := &testReconciler{syncReport: report}
	deps := testDeps()
	deps.Reconciler = reconciler

	output, err := executeForTest(deps, "", "sync")
	if err != nil {
		t.Fatalf("sync returned error: %v", err)
	}
	if !strings.Contains(output, "warning: 2 remote game-pass entries are not declared locally") {
		t.Fatalf("expected warning line, got %q", output)
	}
}

func TestSyncRecordsHistoryAfterApply(t *testing.T) {
	t.Parallel()

	recorder := &testRecorder{committed: true}
	deps := testDeps()
	deps.Reconciler = &testReconciler{syncReport: sampleReport()}
	deps.Recorder = recorder

	if _, err := executeForTest(deps, "", "sync"); err != nil {
		t.Fatalf("sync returned error: %v", err)
	}

	if len(recorder.recordCalls) != 1 {
		t.Fatalf("expected one history commit, got %d", len(recorder.recordCalls))
	}
	want := "bloxsync sync: 1 create, 1 update, 1 icon-upload"
	if recorder.recordCalls[0] != want {
		t.Fatalf("expected commit message %q, got %q", want, recorder.recordCalls[0])
	}
}

func TestSyncDryRunSkipsHistory(t *testing.T) {
	t.Parallel()

	recorder := &testRecorder{}
	deps := testDeps()
	deps.Reconciler = &testReconciler{syncReport: sampleReport()}
	deps.Recorder = recorder

	if _, err := executeForTest(deps, "", "sync", "--dry-run"); err != nil {
		t.Fatalf("sync --dry-run returned error: %v", err)
	}
	if len(recorder.recordCalls) != 0 {
		t.Fatalf("expected no history commits for a dry run, got %d", len(recorder.recordCalls))
	}
}

func TestSyncHistoryFailureIsWarningOnly(t *testing.T) {
	t.Parallel()

	recorder := &testRecorder{recordErr: errors.New("worktree is locked")}
	deps := testDeps()
	deps.Reconciler = &testReconciler{syncReport: sampleReport()}
	deps.Recorder = recorder

	_, stderr, err := executeForTestWithStreams(deps, "", "sync")
	if err != nil {
		t.Fatalf("expected sync to succeed despite history failure, got %v", err)
	}
	if !strings.Contains(stderr, "warning: history commit failed") {
		t.Fatalf("expected history warning on stderr, got %q", stderr)
	}
}

func TestSyncVerboseAnnouncesCommit(t *testing.T) {
	t.Parallel()

	recorder := &testRecorder{committed: true}
	deps := testDeps()
	deps.Reconciler = &testReconciler{syncReport: sampleReport()}
	deps.Recorder = recorder

	_, stderr, err := executeForTestWithStreams(deps, "", "sync", "--verbose")
	if err != nil {
		t.Fatalf("sync returned error: %v", err)
	}
	if !strings.Contains(stderr, "history: lock file committed") {
		t.Fatalf("expected verbose commit note, got %q", stderr)
	}
}

func TestSyncFailureCarriesFirstCategory(t *testing.T) {
	t.Parallel()

	report := reconcile.Report{
		Actions: []reconcile.Action{
			{Ref: resource.Ref{Kind: resource.GamePass, Name: "VIP"}, Operation: reconcile.OperationUpdate},
			{
				Ref:       resource.Ref{Kind: resource.Badge, Name: "Welcome"},
				Operation: reconcile.OperationCreate,
				Err:       faults.NewTypedError(faults.TransportError, "badge create timed out", nil),
			},
		},
	}
	deps := testDeps()
	deps.Reconciler = &testReconciler{syncReport: report}

	output, err := executeForTest(deps, "", "sync")
	assertTypedCategory(t, err, faults.TransportError)
	if !strings.Contains(err.Error(), "1 of 2 actions failed") {
		t.Fatalf("expected failure count in error, got %v", err)
	}
	if !strings.Contains(output, "error: badge create timed out") {
		t.Fatalf("expected per-action error in report output, got %q", output)
	}
}

func TestSyncReconcilerErrorPassesThrough(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Reconciler = &testReconciler{syncErr: faults.NewTypedError(faults.StateError, "lock file version 2 is newer than this tool", nil)}

	_, err := executeForTest(deps, "", "sync")
	assertTypedCategory(t, err, faults.StateError)
}

func TestSyncWithoutReconcilerReturnsAuthError(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Reconciler = nil

	_, err := executeForTest(deps, "", "sync")
	assertTypedCategory(t, err, faults.AuthError)
}
