package common

import (
	"fmt"
	"io"

	"github.com/crmarques/bloxsync/reconcile"
)

// ReportView is the output shape shared by sync and publish. It flattens the
// reconcile report into something stable for json/yaml consumers.
type ReportView struct {
	DryRun   bool         `json:"dry_run" yaml:"dry-run"`
	Actions  []ActionView `json:"actions" yaml:"actions"`
	Warnings []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Summary  string       `json:"summary" yaml:"summary"`
}

type ActionView struct {
	Kind      string `json:"kind" yaml:"kind"`
	Name      string `json:"name" yaml:"name"`
	Operation string `json:"operation" yaml:"operation"`
	Detail    string `json:"detail,omitempty" yaml:"detail,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

func NewReportView(report reconcile.Report) ReportView {
	view := ReportView{
		DryRun:   report.DryRun,
		Actions:  make([]ActionView, 0, len(report.Actions)),
		Warnings: report.Warnings,
		Summary:  report.Summary(),
	}
	for _, action := range report.Actions {
		item := ActionView{
			Kind:      action.Ref.Kind.String(),
			Name:      action.Ref.Name,
			Operation: string(action.Operation),
			Detail:    action.Detail,
		}
		if action.Err != nil {
			item.Error = action.Err.Error()
		}
		view.Actions = append(view.Actions, item)
	}
	return view
}

// RenderReportText prints warnings, the per-action table, and a summary
// line. An empty report still gets the summary so the user sees the no-op.
func RenderReportText(w io.Writer, view ReportView) error {
	for _, warning := range view.Warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", warning); err != nil {
			return err
		}
	}

	if len(view.Actions) > 0 {
		table := NewTable(w, []string{"KIND", "NAME", "ACTION", "DETAIL"})
		for _, action := range view.Actions {
			detail := action.Detail
			if action.Error != "" {
				detail = "error: " + action.Error
			}
			table.Append([]string{action.Kind, action.Name, action.Operation, detail})
		}
		table.Render()
	}

	label := "applied"
	if view.DryRun {
		label = "plan"
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", label, view.Summary)
	return err
}
