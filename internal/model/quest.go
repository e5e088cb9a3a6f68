package model

import "strings"

// QuestRewards is the reward schedule attached to a quest definition
type QuestRewards struct {
	XP                 int      `json:"xp" yaml:"xp"`
	Items              []string `json:"items,omitempty" yaml:"items"`
	UnlockRequirements []string `json:"unlock_requirements,omitempty" yaml:"unlock_requirements"`
}

// QuestModule is a validated, immutable quest definition produced by the
// content pipeline.
type QuestModule struct {
	ID      string       `json:"id" yaml:"id"`
	Title   string       `json:"title,omitempty" yaml:"title"`
	Subject string       `json:"subject,omitempty" yaml:"subject"`
	Rewards QuestRewards `json:"rewards" yaml:"rewards"`
}

// HasSubjectPrefix reports whether the quest id belongs to a subject, using
// the "<subject>-" id convention.
func HasSubjectPrefix(questID, subject string) bool {
	return strings.HasPrefix(questID, subject+"-")
}

// Achievement describes an unlockable badge. The unlock rule lives in the
// catalog next to the description.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ItemRarity grades collectible items
type ItemRarity string

const (
	RarityCommon    ItemRarity = "common"
	RarityUncommon  ItemRarity = "uncommon"
	RarityRare      ItemRarity = "rare"
	RarityLegendary ItemRarity = "legendary"
)

// ItemType classifies collectible items
type ItemType string

const (
	ItemTypeScroll     ItemType = "scroll"
	ItemTypeTool       ItemType = "tool"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeTrinket    ItemType = "trinket"
)

// Item is a static catalog entry referenced by id from inventories and
// reward lists.
type Item struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Rarity      ItemRarity `json:"rarity"`
	Type        ItemType   `json:"type"`
}
