// Package commandmeta centralizes per-command-path policies so the bootstrap
// in main and the output layer agree on what each command needs.
package commandmeta

import "strings"

type OutputPolicy uint8

const (
	OutputPolicyStructured OutputPolicy = iota
	OutputPolicyTextOnly
)

// RequiresWorkspacePath reports whether a command path needs the loaded
// project, lock store, and providers before it can run.
func RequiresWorkspacePath(commandPath string) bool {
	normalized := strings.TrimSpace(commandPath)
	switch normalized {
	case "bloxsync sync",
		"bloxsync publish",
		"bloxsync export",
		"bloxsync status",
		"bloxsync ping":
		return true
	}
	return strings.HasPrefix(normalized, "bloxsync state ")
}

// EmitsExecutionStatusPath marks the mutating commands that close with an
// [OK]/[ERROR] trailer. Read-only output commands stay quiet.
func EmitsExecutionStatusPath(commandPath string) bool {
	switch strings.TrimSpace(commandPath) {
	case "bloxsync sync",
		"bloxsync publish",
		"bloxsync state prune",
		"bloxsync init",
		"bloxsync auth login",
		"bloxsync auth logout":
		return true
	default:
		return false
	}
}

func OutputPolicyForPath(commandPath string) OutputPolicy {
	switch strings.TrimSpace(commandPath) {
	case "bloxsync init",
		"bloxsync auth login",
		"bloxsync auth logout":
		return OutputPolicyTextOnly
	default:
		return OutputPolicyStructured
	}
}
