// Package catalog holds the read-only lookup tables of the quest core.
//
// Items and achievements are static Go tables built at init. Quest
// definitions are loaded from a YAML feed at start and validated against
// the item table:
//
//	quests, err := catalog.LoadQuests("quests.yaml")
//	quest, ok := quests.Get("math-fractions-1")
//
// Achievements are a list of (definition, rule) pairs. Adding an
// achievement means appending an entry; rules must be monotonic since
// unlocks are never revoked.
package catalog
