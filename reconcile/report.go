package reconcile

import (
	"fmt"
	"strings"

	"github.com/crmarques/bloxsync/resource"
)

// Operation names one kind of reconciliation step.
type Operation string

const (
	OperationCreate   Operation = "create"
	OperationAdopt    Operation = "adopt"
	OperationUpdate   Operation = "update"
	OperationRecreate Operation = "recreate"
	OperationIcon     Operation = "icon-upload"
	OperationPublish  Operation = "publish"
	OperationSkip     Operation = "skip"
)

// Action is one applied (or, in dry-run, planned) step for one resource. A
// single entry commonly produces several actions, e.g. a create followed by
// an icon upload.
type Action struct {
	Ref       resource.Ref
	Operation Operation
	Detail    string
	Err       error
}

func (a Action) Failed() bool {
	return a.Err != nil
}

// Report collects the outcome of a run. Failures never abort the walk, so a
// report can mix successful and failed actions; HasFailures drives the
// non-zero exit.
type Report struct {
	DryRun   bool
	Actions  []Action
	Warnings []string
}

func (r *Report) record(ref resource.Ref, op Operation, detail string) {
	r.Actions = append(r.Actions, Action{Ref: ref, Operation: op, Detail: detail})
}

func (r *Report) fail(ref resource.Ref, op Operation, err error) {
	r.Actions = append(r.Actions, Action{Ref: ref, Operation: op, Err: err})
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r Report) Failures() []Action {
	var failed []Action
	for _, action := range r.Actions {
		if action.Failed() {
			failed = append(failed, action)
		}
	}
	return failed
}

func (r Report) HasFailures() bool {
	for _, action := range r.Actions {
		if action.Failed() {
			return true
		}
	}
	return false
}

// Summary renders a one-line count of what happened, in walk order.
func (r Report) Summary() string {
	counts := map[Operation]int{}
	failed := 0
	for _, action := range r.Actions {
		if action.Failed() {
			failed++
			continue
		}
		counts[action.Operation]++
	}

	order := []Operation{
		OperationCreate, OperationAdopt, OperationUpdate, OperationRecreate,
		OperationIcon, OperationPublish, OperationSkip,
	}
	parts := []string{}
	for _, op := range order {
		if counts[op] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[op], op))
		}
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}
