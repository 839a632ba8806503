package reconcile

import (
	"github.com/crmarques/bloxsync/config"
	"github.com/crmarques/bloxsync/remote"
	"github.com/crmarques/bloxsync/resource"
	"github.com/crmarques/bloxsync/state"
)

// entrySpec is the kind-independent view of one configured entry: its
// identity, its icon, and the payloads both decision branches would send.
// Payloads carry only declared fields so an omitted optional never overwrites
// remote state.
type entrySpec struct {
	name   string
	icon   string
	create remote.Payload
	update remote.Payload
}

func (r *DefaultReconciler) entrySpecs(kind resource.Kind) []entrySpec {
	switch kind {
	case resource.GamePass:
		return gamePassSpecs(r.project.GamePasses)
	case resource.DeveloperProduct:
		return developerProductSpecs(r.project.DeveloperProducts)
	case resource.Badge:
		return badgeSpecs(r.project.Badges, r.project.BadgePaymentSource)
	default:
		return nil
	}
}

func gamePassSpecs(passes []config.GamePassEntry) []entrySpec {
	specs := make([]entrySpec, 0, len(passes))
	for _, pass := range passes {
		create := remote.Payload{"name": pass.Name}
		update := remote.Payload{"name": pass.Name}
		if pass.Description != nil {
			create["description"] = *pass.Description
			update["description"] = *pass.Description
		}
		if pass.Price != nil {
			create["price"] = *pass.Price
			update["price"] = *pass.Price
		}
		if pass.IsForSale != nil {
			update["isForSale"] = *pass.IsForSale
		}

		specs = append(specs, entrySpec{name: pass.Name, icon: pass.Icon, create: create, update: update})
	}
	return specs
}

func developerProductSpecs(products []config.DeveloperProduct) []entrySpec {
	specs := make([]entrySpec, 0, len(products))
	for _, product := range products {
		create := remote.Payload{"name": product.Name, "price": product.Price}
		update := remote.Payload{"name": product.Name, "price": product.Price}
		if product.Description != nil {
			create["description"] = *product.Description
			update["description"] = *product.Description
		}
		if product.IsActive != nil {
			update["isActive"] = *product.IsActive
		}

		specs = append(specs, entrySpec{name: product.Name, icon: product.Icon, create: create, update: update})
	}
	return specs
}

func badgeSpecs(badges []config.BadgeEntry, paymentSource string) []entrySpec {
	specs := make([]entrySpec, 0, len(badges))
	for _, badge := range badges {
		create := remote.Payload{"name": badge.Name, "paymentSource": paymentSource}
		update := remote.Payload{"name": badge.Name}
		if badge.Description != nil {
			create["description"] = *badge.Description
			update["description"] = *badge.Description
		}
		if badge.IsEnabled != nil {
			update["enabled"] = *badge.IsEnabled
		}

		specs = append(specs, entrySpec{name: badge.Name, icon: badge.Icon, create: create, update: update})
	}
	return specs
}

// universePatch builds the develop API payload. Genre is accepted in config
// for bookkeeping and export but has no remote update path, so it never
// appears here.
func universePatch(settings config.UniverseSettings) remote.Payload {
	patch := remote.Payload{}
	if settings.Name != nil {
		patch["name"] = *settings.Name
	}
	if settings.Description != nil {
		patch["description"] = *settings.Description
	}
	if len(settings.PlayableDevices) > 0 {
		patch["playableDevices"] = append([]string(nil), settings.PlayableDevices...)
	}
	if settings.MaxPlayers != nil {
		patch["maxPlayerCount"] = *settings.MaxPlayers
	}
	if settings.PrivateServerCost != nil {
		if settings.PrivateServerCost.Disabled {
			patch["allowPrivateServers"] = false
		} else {
			patch["allowPrivateServers"] = true
			patch["privateServerPrice"] = settings.PrivateServerCost.Price
		}
	}
	return patch
}

func universeSnapshot(settings config.UniverseSettings) state.UniverseSnapshot {
	snapshot := state.UniverseSnapshot{
		Name:        settings.Name,
		Description: settings.Description,
		Genre:       settings.Genre,
		MaxPlayers:  settings.MaxPlayers,
	}
	if len(settings.PlayableDevices) > 0 {
		snapshot.PlayableDevices = append([]string(nil), settings.PlayableDevices...)
	}
	if settings.PrivateServerCost != nil {
		rendered := settings.PrivateServerCost.String()
		snapshot.PrivateServerCost = &rendered
	}
	return snapshot
}
