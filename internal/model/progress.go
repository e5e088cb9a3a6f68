package model

import (
	"slices"
	"time"
)

// Starting values for a freshly created player
const (
	StartingLevel  = 1
	StartingHealth = 100
)

// levelThresholds maps a level to the XP needed to reach the next one.
// Levels without an entry are terminal.
var levelThresholds = map[int]int{
	1: 100,
	2: 250,
	3: 500,
	4: 1000,
	5: 2000,
}

// MaxLevel is the terminal level; XP keeps accumulating there but never
// promotes further.
const MaxLevel = 6

// XPThreshold returns the XP required to advance from level, and false
// when level is terminal.
func XPThreshold(level int) (int, bool) {
	t, ok := levelThresholds[level]
	return t, ok
}

// UserProgress tracks experience, inventory and quest history for one user
type UserProgress struct {
	UserID          string                 `json:"user_id"`
	XP              int                    `json:"xp"`
	Level           int                    `json:"level"`
	Health          int                    `json:"health"`
	CompletedQuests map[string][]time.Time `json:"completed_quests,omitempty"`
	Inventory       map[string]int         `json:"inventory,omitempty"`
	UpdatedOn       time.Time              `json:"updated_on"`
	// Revision is the store version this snapshot corresponds to. It is
	// filled in on read and never persisted inside the document.
	Revision        int64                  `json:"revision,omitempty"`
}

// NewUserProgress returns the progress record a user starts with
func NewUserProgress(userID string, now time.Time) *UserProgress {
	return &UserProgress{
		UserID:          userID,
		Level:           StartingLevel,
		Health:          StartingHealth,
		CompletedQuests: map[string][]time.Time{},
		Inventory:       map[string]int{},
		UpdatedOn:       now,
	}
}

// HasCompleted reports whether the quest appears in the completion history
func (p *UserProgress) HasCompleted(questID string) bool {
	return len(p.CompletedQuests[questID]) > 0
}

// LastCompletion returns the most recent completion time for a quest
func (p *UserProgress) LastCompletion(questID string) (time.Time, bool) {
	history := p.CompletedQuests[questID]
	if len(history) == 0 {
		return time.Time{}, false
	}
	return slices.MaxFunc(history, func(a, b time.Time) int { return a.Compare(b) }), true
}

// RecordCompletion appends a completion timestamp to the quest's history.
// Earlier timestamps are kept.
func (p *UserProgress) RecordCompletion(questID string, at time.Time) {
	if p.CompletedQuests == nil {
		p.CompletedQuests = make(map[string][]time.Time)
	}
	p.CompletedQuests[questID] = append(p.CompletedQuests[questID], at)
}

// AddItems increments inventory counts for each awarded item id
func (p *UserProgress) AddItems(itemIDs ...string) {
	if len(itemIDs) == 0 {
		return
	}
	if p.Inventory == nil {
		p.Inventory = make(map[string]int)
	}
	for _, id := range itemIDs {
		p.Inventory[id]++
	}
}

// GainXP adds experience and promotes the level while the accumulated XP
// covers the current threshold. It returns the number of levels gained.
func (p *UserProgress) GainXP(amount int) int {
	if amount > 0 {
		p.XP += amount
	}
	return p.normalize()
}

func (p *UserProgress) normalize() int {
	if p.Level < StartingLevel {
		p.Level = StartingLevel
	}
	gained := 0
	for {
		threshold, ok := XPThreshold(p.Level)
		if !ok || p.XP < threshold {
			return gained
		}
		p.XP -= threshold
		p.Level++
		gained++
	}
}

// Normalized reports whether XP is below the threshold for the current level
func (p *UserProgress) Normalized() bool {
	threshold, ok := XPThreshold(p.Level)
	return p.XP >= 0 && (!ok || p.XP < threshold)
}
