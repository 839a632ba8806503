package main

import "testing"

func TestConfigPathFromArgs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "absent", args: []string{"sync"}, want: ""},
		{name: "short flag", args: []string{"-c", "proj/bloxsync.yaml", "sync"}, want: "proj/bloxsync.yaml"},
		{name: "long flag", args: []string{"sync", "--config", "proj/bloxsync.yaml"}, want: "proj/bloxsync.yaml"},
		{name: "equals form", args: []string{"--config=proj/bloxsync.yaml", "sync"}, want: "proj/bloxsync.yaml"},
		{name: "dangling flag", args: []string{"sync", "--config"}, want: ""},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := configPathFromArgs(testCase.args); got != testCase.want {
				t.Fatalf("expected %q, got %q", testCase.want, got)
			}
		})
	}
}

func TestShouldSkipWorkspaceBootstrap(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		skip bool
	}{
		{name: "no args", args: nil, skip: true},
		{name: "help", args: []string{"help"}, skip: true},
		{name: "help flag", args: []string{"sync", "--help"}, skip: true},
		{name: "completion", args: []string{"completion", "bash"}, skip: true},
		{name: "shell completion", args: []string{"__complete", "sync", ""}, skip: true},
		{name: "version", args: []string{"version"}, skip: true},
		{name: "init", args: []string{"init"}, skip: true},
		{name: "auth login", args: []string{"auth", "login"}, skip: true},
		{name: "unknown command", args: []string{"bogus"}, skip: true},
		{name: "sync", args: []string{"sync"}, skip: false},
		{name: "sync dry run", args: []string{"sync", "--dry-run"}, skip: false},
		{name: "publish", args: []string{"publish"}, skip: false},
		{name: "export", args: []string{"export"}, skip: false},
		{name: "status", args: []string{"status"}, skip: false},
		{name: "state prune", args: []string{"state", "prune"}, skip: false},
		{name: "ping", args: []string{"ping"}, skip: false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := shouldSkipWorkspaceBootstrap(testCase.args); got != testCase.skip {
				t.Fatalf("expected skip=%t for %v, got %t", testCase.skip, testCase.args, got)
			}
		})
	}
}
