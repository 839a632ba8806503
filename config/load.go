package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/crmarques/bloxsync/faults"
	"github.com/crmarques/bloxsync/internal/version"
	"go.yaml.in/yaml/v3"
)

// Load reads, decodes, and fully validates the project file so every
// misconfiguration surfaces before the first network call. The returned
// Project remembers its directory, which anchors relative asset and place
// paths and the lock file.
func Load(explicitPath string) (Project, error) {
	path, err := resolveProjectPath(explicitPath)
	if err != nil {
		return Project{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Project{}, faults.NewTypedError(faults.NotFoundError, fmt.Sprintf("project configuration %q not found", path), err)
		}
		return Project{}, internalError("failed to read project configuration", err)
	}

	project, err := decodeProject(data)
	if err != nil {
		return Project{}, err
	}

	project = applyProjectDefaults(project)
	if err := applyUniverseIDOverride(&project); err != nil {
		return Project{}, err
	}
	if err := validateProject(project); err != nil {
		return Project{}, err
	}

	project.rootDir = filepath.Dir(path)
	return project, nil
}

func decodeProject(data []byte) (Project, error) {
	var project Project

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&project); err != nil {
		return Project{}, validationError("invalid project configuration yaml", err)
	}

	return project, nil
}

func resolveProjectPath(explicitPath string) (string, error) {
	path := explicitPath
	if path == "" {
		path = DefaultConfigFileName
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", internalError("failed to resolve user home directory", err)
		}
		if path == "~" {
			path = homeDir
		} else {
			path = filepath.Join(homeDir, strings.TrimPrefix(path, "~/"))
		}
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", internalError("failed to resolve project configuration path", err)
	}
	return absPath, nil
}

func applyProjectDefaults(project Project) Project {
	if project.AssetsDir == "" {
		project.AssetsDir = DefaultAssetsDir
	}
	if project.OnMissingRemote == "" {
		project.OnMissingRemote = OnMissingRemoteFail
	}
	project.OnMissingRemote = strings.ToLower(strings.TrimSpace(project.OnMissingRemote))
	project.BadgePaymentSource = strings.ToLower(strings.TrimSpace(project.BadgePaymentSource))
	if project.Creator != nil {
		project.Creator.Type = strings.ToLower(strings.TrimSpace(project.Creator.Type))
	}
	for i, device := range project.Universe.PlayableDevices {
		project.Universe.PlayableDevices[i] = strings.ToLower(strings.TrimSpace(device))
	}
	return project
}

func applyUniverseIDOverride(project *Project) error {
	raw := strings.TrimSpace(os.Getenv(UniverseIDEnvVar))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return validationError(fmt.Sprintf("%s must be a positive universe id, got %q", UniverseIDEnvVar, raw), err)
	}
	project.Universe.ID = id
	return nil
}

func validateProject(project Project) error {
	if project.RequiredVersion != "" {
		if err := version.CheckConstraint(project.RequiredVersion); err != nil {
			return err
		}
	}

	if filepath.IsAbs(project.AssetsDir) || escapesProjectRoot(project.AssetsDir) {
		return validationError("assets-dir must be a relative path inside the project directory", nil)
	}

	if project.OnMissingRemote != OnMissingRemoteFail && project.OnMissingRemote != OnMissingRemoteRecreate {
		return validationError(fmt.Sprintf("on-missing-remote must be %s or %s", OnMissingRemoteFail, OnMissingRemoteRecreate), nil)
	}

	if err := validateCreator(project); err != nil {
		return err
	}
	if err := validateUniverse(project.Universe); err != nil {
		return err
	}
	if err := validateGamePasses(project.GamePasses); err != nil {
		return err
	}
	if err := validateDeveloperProducts(project.DeveloperProducts); err != nil {
		return err
	}
	if err := validateBadges(project); err != nil {
		return err
	}
	if err := validatePlaces(project.Places); err != nil {
		return err
	}

	return nil
}

func validateCreator(project Project) error {
	if project.Creator == nil {
		if project.DeclaresIcons() {
			return validationError("creator is required when any entry declares an icon", nil)
		}
		return nil
	}
	if project.Creator.ID <= 0 {
		return validationError("creator.id must be a positive user or group id", nil)
	}
	if project.Creator.Type != CreatorUser && project.Creator.Type != CreatorGroup {
		return validationError(fmt.Sprintf("creator.type must be %s or %s", CreatorUser, CreatorGroup), nil)
	}
	return nil
}

func validateUniverse(universe UniverseSettings) error {
	if universe.ID <= 0 {
		return validationError(fmt.Sprintf("universe.id is required: set it in %s or via %s", DefaultConfigFileName, UniverseIDEnvVar), nil)
	}
	if universe.Name != nil && strings.TrimSpace(*universe.Name) == "" {
		return validationError("universe.name must not be blank when set", nil)
	}
	if universe.MaxPlayers != nil && *universe.MaxPlayers <= 0 {
		return validationError("universe.max-players must be positive when set", nil)
	}
	for _, device := range universe.PlayableDevices {
		if !knownPlayableDevice(device) {
			return validationError(fmt.Sprintf("universe.playable-devices contains unknown device %q", device), nil)
		}
	}
	return nil
}

func knownPlayableDevice(device string) bool {
	switch device {
	case "computer", "phone", "tablet", "console", "vr":
		return true
	default:
		return false
	}
}

func validateGamePasses(entries []GamePassEntry) error {
	seen := map[string]struct{}{}
	for _, entry := range entries {
		if err := validateEntryName("game-passes", entry.Name, seen); err != nil {
			return err
		}
		if entry.Price != nil && *entry.Price < 0 {
			return validationError(fmt.Sprintf("game pass %q price cannot be negative", entry.Name), nil)
		}
		if err := validateIconPath("game pass", entry.Name, entry.Icon); err != nil {
			return err
		}
	}
	return nil
}

func validateDeveloperProducts(entries []DeveloperProduct) error {
	seen := map[string]struct{}{}
	for _, entry := range entries {
		if err := validateEntryName("developer-products", entry.Name, seen); err != nil {
			return err
		}
		if entry.Price < 0 {
			return validationError(fmt.Sprintf("developer product %q price cannot be negative", entry.Name), nil)
		}
		if err := validateIconPath("developer product", entry.Name, entry.Icon); err != nil {
			return err
		}
	}
	return nil
}

func validateBadges(project Project) error {
	seen := map[string]struct{}{}
	for _, entry := range project.Badges {
		if err := validateEntryName("badges", entry.Name, seen); err != nil {
			return err
		}
		if err := validateIconPath("badge", entry.Name, entry.Icon); err != nil {
			return err
		}
	}
	if len(project.Badges) > 0 {
		if project.BadgePaymentSource != CreatorUser && project.BadgePaymentSource != CreatorGroup {
			return validationError(fmt.Sprintf("badge-payment-source must be %s or %s when badges are declared", CreatorUser, CreatorGroup), nil)
		}
	}
	return nil
}

func validatePlaces(entries []PlaceEntry) error {
	seen := map[int64]struct{}{}
	for _, entry := range entries {
		if entry.PlaceID <= 0 {
			return validationError("places entries require a positive place-id", nil)
		}
		if _, exists := seen[entry.PlaceID]; exists {
			return validationError(fmt.Sprintf("duplicate place-id %d in places", entry.PlaceID), nil)
		}
		seen[entry.PlaceID] = struct{}{}
		if strings.TrimSpace(entry.FilePath) == "" {
			return validationError(fmt.Sprintf("place %d requires file-path", entry.PlaceID), nil)
		}
	}
	return nil
}

// validateEntryName enforces the identity rules shared by every named kind:
// names are non-blank and unique within their list. Matching elsewhere is
// case-sensitive, so "VIP" and "vip" are two distinct entries here too.
func validateEntryName(section string, name string, seen map[string]struct{}) error {
	if strings.TrimSpace(name) == "" {
		return validationError(fmt.Sprintf("%s entries require a non-blank name", section), nil)
	}
	if _, exists := seen[name]; exists {
		return validationError(fmt.Sprintf("duplicate name %q in %s", name, section), nil)
	}
	seen[name] = struct{}{}
	return nil
}

func validateIconPath(kind string, name string, icon string) error {
	if icon == "" {
		return nil
	}
	if filepath.IsAbs(icon) || escapesProjectRoot(icon) {
		return validationError(fmt.Sprintf("%s %q icon must be a relative path inside the assets directory", kind, name), nil)
	}
	return nil
}

func escapesProjectRoot(path string) bool {
	clean := filepath.Clean(path)
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
