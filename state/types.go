package state

// LockVersion marks the lock file layout. Files written by a newer layout
// fail loading instead of being silently misread.
const LockVersion = 1

// LockFile is the on-disk ledger recording which remote resources earlier
// runs created or adopted, keyed by entry name within each kind. It is the
// single source of truth for create-vs-update decisions across invocations.
type LockFile struct {
	Version           int               `yaml:"version"`
	Universe          *UniverseSnapshot `yaml:"universe,omitempty"`
	GamePasses        map[string]Entry  `yaml:"game-passes,omitempty"`
	DeveloperProducts map[string]Entry  `yaml:"developer-products,omitempty"`
	Badges            map[string]Entry  `yaml:"badges,omitempty"`
}

// Entry ties one named resource to its remote identity. RemoteID is assigned
// by the platform at creation and is never reassigned here except through the
// explicit recreate policy.
type Entry struct {
	RemoteID    int64  `yaml:"remote-id"`
	IconHash    string `yaml:"icon-hash,omitempty"`
	IconAssetID int64  `yaml:"icon-asset-id,omitempty"`
}

// IconMatches reports whether the stored fingerprint equals the given one.
// Callers that re-associate an uploaded asset must also check IconAssetID.
func (e Entry) IconMatches(hash string) bool {
	return hash != "" && e.IconHash == hash
}

// UniverseSnapshot caches the universe settings as last applied, so status
// output can show them without a remote read.
type UniverseSnapshot struct {
	Name              *string  `yaml:"name,omitempty"`
	Description       *string  `yaml:"description,omitempty"`
	Genre             *string  `yaml:"genre,omitempty"`
	PlayableDevices   []string `yaml:"playable-devices,omitempty"`
	MaxPlayers        *int     `yaml:"max-players,omitempty"`
	PrivateServerCost *string  `yaml:"private-server-cost,omitempty"`
}
