package catalog

import (
	"maps"
	"slices"

	"github.com/forgo/quest/internal/model"
)

var items = map[string]model.Item{
	"scroll_of_insight": {
		ID:          "scroll_of_insight",
		Name:        "Scroll of Insight",
		Description: "A short summary of a lesson, good for revision.",
		Rarity:      model.RarityCommon,
		Type:        model.ItemTypeScroll,
	},
	"quill": {
		ID:          "quill",
		Name:        "Quill",
		Description: "A scholar's writing tool.",
		Rarity:      model.RarityCommon,
		Type:        model.ItemTypeTool,
	},
	"abacus": {
		ID:          "abacus",
		Name:        "Abacus",
		Description: "Counts faster than fingers.",
		Rarity:      model.RarityUncommon,
		Type:        model.ItemTypeTool,
	},
	"lens": {
		ID:          "lens",
		Name:        "Magnifying Lens",
		Description: "Reveals the small print of nature.",
		Rarity:      model.RarityUncommon,
		Type:        model.ItemTypeTool,
	},
	"map_fragment": {
		ID:          "map_fragment",
		Name:        "Map Fragment",
		Description: "A torn piece of an old chart.",
		Rarity:      model.RarityUncommon,
		Type:        model.ItemTypeTrinket,
	},
	"health_potion": {
		ID:          "health_potion",
		Name:        "Health Potion",
		Description: "Restores a little health.",
		Rarity:      model.RarityCommon,
		Type:        model.ItemTypeConsumable,
	},
	"focus_elixir": {
		ID:          "focus_elixir",
		Name:        "Focus Elixir",
		Description: "Sharpens the mind for one study session.",
		Rarity:      model.RarityRare,
		Type:        model.ItemTypeConsumable,
	},
	"golden_feather": {
		ID:          "golden_feather",
		Name:        "Golden Feather",
		Description: "Said to fall only on the luckiest students.",
		Rarity:      model.RarityLegendary,
		Type:        model.ItemTypeTrinket,
	},
	"ancient_tome": {
		ID:          "ancient_tome",
		Name:        "Ancient Tome",
		Description: "Heavy, dusty and full of answers.",
		Rarity:      model.RarityRare,
		Type:        model.ItemTypeScroll,
	},
}

// bonusPool is the fixed set luck rolls draw from. Order matters: the
// roller picks by index.
var bonusPool = []string{
	"health_potion",
	"focus_elixir",
	"ancient_tome",
	"golden_feather",
}

// Item looks up an item by id
func Item(id string) (model.Item, bool) {
	item, ok := items[id]
	return item, ok
}

// Items returns every catalog item sorted by id
func Items() []model.Item {
	ids := slices.Sorted(maps.Keys(items))
	out := make([]model.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, items[id])
	}
	return out
}

// BonusPool returns a copy of the luck bonus pool
func BonusPool() []string {
	return slices.Clone(bonusPool)
}
