package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crmarques/bloxsync/faults"
)

const validProjectYAML = `
required-version: ">= 0.1.0"
creator:
  id: 42
  type: user
badge-payment-source: group
universe:
  id: 6097556
  name: Orb Collector
  description: Collect every orb.
  max-players: 24
  playable-devices: [computer, phone]
  private-server-cost: 100
game-passes:
  - name: VIP
    description: Gold nametag and chat color.
    price: 250
    icon: vip.png
developer-products:
  - name: 100 Coins
    price: 10
    icon: coins.png
badges:
  - name: First Orb
    description: Collected one orb.
    icon: first-orb.png
places:
  - place-id: 1818
    file-path: build/start.rbxl
    publish: true
history:
  enabled: true
`

func writeProjectFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write project file: %v", err)
	}
	return path
}

func TestLoadValidProject(t *testing.T) {
	t.Parallel()

	path := writeProjectFile(t, validProjectYAML)
	project, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if project.Universe.ID != 6097556 {
		t.Fatalf("expected universe id 6097556, got %d", project.Universe.ID)
	}
	if project.AssetsDir != DefaultAssetsDir {
		t.Fatalf("expected default assets dir, got %q", project.AssetsDir)
	}
	if project.OnMissingRemote != OnMissingRemoteFail {
		t.Fatalf("expected default on-missing-remote %q, got %q", OnMissingRemoteFail, project.OnMissingRemote)
	}
	if project.Universe.PrivateServerCost == nil || project.Universe.PrivateServerCost.Price != 100 {
		t.Fatalf("expected private server cost 100, got %+v", project.Universe.PrivateServerCost)
	}
	if len(project.GamePasses) != 1 || project.GamePasses[0].Name != "VIP" {
		t.Fatalf("unexpected game passes: %+v", project.GamePasses)
	}
	if !project.DeclaresIcons() {
		t.Fatal("expected project to declare icons")
	}
	if project.Root() != filepath.Dir(path) {
		t.Fatalf("expected root %q, got %q", filepath.Dir(path), project.Root())
	}
	if project.LockPath() != filepath.Join(filepath.Dir(path), DefaultLockFileName) {
		t.Fatalf("unexpected lock path %q", project.LockPath())
	}
	if len(project.Places) != 1 || !project.Places[0].PublishEnabled() {
		t.Fatalf("expected place publish to be enabled, got %+v", project.Places)
	}
}

func TestLoadMissingFileIsNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected missing file error")
	}
	if !faults.IsCategory(err, faults.NotFoundError) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDecodeProjectRejectsUnknownField(t *testing.T) {
	t.Parallel()

	invalidYAML := `
universe:
  id: 11
  player-limit: 8
`
	_, err := decodeProject([]byte(invalidYAML))
	if err == nil {
		t.Fatal("expected unknown field to fail decode")
	}
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoadUniverseIDFromEnv(t *testing.T) {
	path := writeProjectFile(t, "universe:\n  name: Orb Collector\n")

	t.Setenv(UniverseIDEnvVar, "990011")
	project, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if project.Universe.ID != 990011 {
		t.Fatalf("expected env universe id 990011, got %d", project.Universe.ID)
	}
}

func TestLoadEnvUniverseIDOverridesFile(t *testing.T) {
	path := writeProjectFile(t, "universe:\n  id: 6097556\n")

	t.Setenv(UniverseIDEnvVar, "42")
	project, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if project.Universe.ID != 42 {
		t.Fatalf("expected env override 42, got %d", project.Universe.ID)
	}
}

func TestLoadRejectsMalformedEnvUniverseID(t *testing.T) {
	path := writeProjectFile(t, "universe:\n  id: 6097556\n")

	t.Setenv(UniverseIDEnvVar, "not-a-number")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected malformed env universe id to fail")
	}
	if !strings.Contains(err.Error(), UniverseIDEnvVar) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadValidationFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{
			name:    "missing_universe_id",
			yaml:    "universe:\n  name: Orb Collector\n",
			wantMsg: "universe.id is required",
		},
		{
			name: "duplicate_game_pass_names",
			yaml: `
universe:
  id: 11
game-passes:
  - name: VIP
  - name: VIP
`,
			wantMsg: `duplicate name "VIP" in game-passes`,
		},
		{
			name: "icon_without_creator",
			yaml: `
universe:
  id: 11
game-passes:
  - name: VIP
    icon: vip.png
`,
			wantMsg: "creator is required",
		},
		{
			name: "unknown_creator_type",
			yaml: `
universe:
  id: 11
creator:
  id: 42
  type: studio
`,
			wantMsg: "creator.type must be",
		},
		{
			name: "negative_game_pass_price",
			yaml: `
universe:
  id: 11
game-passes:
  - name: VIP
    price: -5
`,
			wantMsg: "price cannot be negative",
		},
		{
			name: "badges_without_payment_source",
			yaml: `
universe:
  id: 11
badges:
  - name: First Orb
`,
			wantMsg: "badge-payment-source",
		},
		{
			name: "unknown_playable_device",
			yaml: `
universe:
  id: 11
  playable-devices: [toaster]
`,
			wantMsg: "unknown device",
		},
		{
			name: "absolute_icon_path",
			yaml: `
universe:
  id: 11
creator:
  id: 42
  type: user
game-passes:
  - name: VIP
    icon: /tmp/vip.png
`,
			wantMsg: "icon must be a relative path",
		},
		{
			name: "icon_escaping_assets_dir",
			yaml: `
universe:
  id: 11
creator:
  id: 42
  type: user
game-passes:
  - name: VIP
    icon: ../vip.png
`,
			wantMsg: "icon must be a relative path",
		},
		{
			name: "duplicate_place_id",
			yaml: `
universe:
  id: 11
places:
  - place-id: 7
    file-path: a.rbxl
  - place-id: 7
    file-path: b.rbxl
`,
			wantMsg: "duplicate place-id",
		},
		{
			name: "place_without_file_path",
			yaml: `
universe:
  id: 11
places:
  - place-id: 7
`,
			wantMsg: "requires file-path",
		},
		{
			name: "unknown_on_missing_remote_policy",
			yaml: `
universe:
  id: 11
on-missing-remote: panic
`,
			wantMsg: "on-missing-remote must be",
		},
		{
			name: "unsatisfied_required_version",
			yaml: `
required-version: ">= 99.0.0"
universe:
  id: 11
`,
			wantMsg: "does not satisfy required-version",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeProjectFile(t, tt.yaml))
			if err == nil {
				t.Fatalf("expected validation failure for %s", tt.name)
			}
			if !faults.IsCategory(err, faults.ValidationError) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestLoadAllowsCaseDifferingNames(t *testing.T) {
	t.Parallel()

	project, err := Load(writeProjectFile(t, `
universe:
  id: 11
game-passes:
  - name: VIP
  - name: vip
`))
	if err != nil {
		t.Fatalf("expected case-differing names to be distinct entries, got error: %v", err)
	}
	if len(project.GamePasses) != 2 {
		t.Fatalf("expected 2 game passes, got %d", len(project.GamePasses))
	}
}

func TestProjectPathResolution(t *testing.T) {
	t.Parallel()

	path := writeProjectFile(t, "assets-dir: images\nuniverse:\n  id: 11\n")
	project, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	root := filepath.Dir(path)
	if got := project.IconPath("vip.png"); got != filepath.Join(root, "images", "vip.png") {
		t.Fatalf("unexpected icon path %q", got)
	}

	relative := project.PlacePath(PlaceEntry{PlaceID: 7, FilePath: "build/start.rbxl"})
	if relative != filepath.Join(root, "build", "start.rbxl") {
		t.Fatalf("unexpected relative place path %q", relative)
	}
	absolute := project.PlacePath(PlaceEntry{PlaceID: 7, FilePath: "/ci/out/start.rbxl"})
	if absolute != "/ci/out/start.rbxl" {
		t.Fatalf("expected absolute place path to pass through, got %q", absolute)
	}
}
