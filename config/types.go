package config

const (
	DefaultConfigFileName = "bloxsync.yaml"
	DefaultLockFileName   = "bloxsync-lock.yaml"
	DefaultAssetsDir      = "assets"

	UniverseIDEnvVar = "ROBLOX_UNIVERSE_ID"

	CreatorUser  = "user"
	CreatorGroup = "group"

	OnMissingRemoteFail     = "fail"
	OnMissingRemoteRecreate = "recreate"
)

// Project is the declarative description of one experience, loaded from
// bloxsync.yaml. Entry names act as identity keys: unique within their kind
// and matched case-sensitively against the lock ledger and the remote
// service.
type Project struct {
	RequiredVersion    string             `yaml:"required-version,omitempty"`
	AssetsDir          string             `yaml:"assets-dir,omitempty"`
	Creator            *Creator           `yaml:"creator,omitempty"`
	BadgePaymentSource string             `yaml:"badge-payment-source,omitempty"`
	OnMissingRemote    string             `yaml:"on-missing-remote,omitempty"`
	Universe           UniverseSettings   `yaml:"universe"`
	GamePasses         []GamePassEntry    `yaml:"game-passes,omitempty"`
	DeveloperProducts  []DeveloperProduct `yaml:"developer-products,omitempty"`
	Badges             []BadgeEntry       `yaml:"badges,omitempty"`
	Places             []PlaceEntry       `yaml:"places,omitempty"`
	History            History            `yaml:"history,omitempty"`

	rootDir string
}

type Creator struct {
	ID   int64  `yaml:"id"`
	Type string `yaml:"type"`
}

type UniverseSettings struct {
	ID                int64              `yaml:"id,omitempty"`
	Name              *string            `yaml:"name,omitempty"`
	Description       *string            `yaml:"description,omitempty"`
	Genre             *string            `yaml:"genre,omitempty"`
	PlayableDevices   []string           `yaml:"playable-devices,omitempty"`
	MaxPlayers        *int               `yaml:"max-players,omitempty"`
	PrivateServerCost *PrivateServerCost `yaml:"private-server-cost,omitempty"`
}

// HasSettings reports whether any updatable field is declared, so the
// universe step can no-op instead of issuing an empty patch.
func (u UniverseSettings) HasSettings() bool {
	return u.Name != nil ||
		u.Description != nil ||
		len(u.PlayableDevices) > 0 ||
		u.MaxPlayers != nil ||
		u.PrivateServerCost != nil
}

type GamePassEntry struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description,omitempty"`
	Price       *int64  `yaml:"price,omitempty"`
	Icon        string  `yaml:"icon,omitempty"`
	IsForSale   *bool   `yaml:"is-for-sale,omitempty"`
}

type DeveloperProduct struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description,omitempty"`
	Price       int64   `yaml:"price"`
	Icon        string  `yaml:"icon,omitempty"`
	IsActive    *bool   `yaml:"is-active,omitempty"`
}

type BadgeEntry struct {
	Name        string  `yaml:"name"`
	Description *string `yaml:"description,omitempty"`
	Icon        string  `yaml:"icon,omitempty"`
	IsEnabled   *bool   `yaml:"is-enabled,omitempty"`
}

type PlaceEntry struct {
	PlaceID  int64  `yaml:"place-id"`
	FilePath string `yaml:"file-path"`
	Publish  bool   `yaml:"publish,omitempty"`
}

// PublishEnabled reports whether the entry opted in to publishing. Declaring
// a place only pins its file; shipping it is explicit.
func (p PlaceEntry) PublishEnabled() bool {
	return p.Publish
}

type History struct {
	Enabled     bool   `yaml:"enabled,omitempty"`
	AuthorName  string `yaml:"author-name,omitempty"`
	AuthorEmail string `yaml:"author-email,omitempty"`
}

// DeclaresIcons reports whether any entry carries an icon, which is what
// makes the creator block mandatory before the first network call.
func (p *Project) DeclaresIcons() bool {
	for _, pass := range p.GamePasses {
		if pass.Icon != "" {
			return true
		}
	}
	for _, product := range p.DeveloperProducts {
		if product.Icon != "" {
			return true
		}
	}
	for _, badge := range p.Badges {
		if badge.Icon != "" {
			return true
		}
	}
	return false
}

// RecreateMissing reports whether the opt-in auto-heal policy is active for
// lock entries whose remote id the service no longer recognizes.
func (p *Project) RecreateMissing() bool {
	return p.OnMissingRemote == OnMissingRemoteRecreate
}
