package model

import "time"

// Attribute names a spendable player stat
type Attribute string

const (
	AttributeIntellect Attribute = "intellect"
	AttributeLuck      Attribute = "luck"
)

// IsValid returns true if the attribute is a known stat
func (a Attribute) IsValid() bool {
	switch a {
	case AttributeIntellect, AttributeLuck:
		return true
	default:
		return false
	}
}

// Attributes holds the stats that modify reward computations
type Attributes struct {
	Intellect int `json:"intellect"`
	Luck      int `json:"luck"`
}

// Get returns the value of the named attribute
func (a Attributes) Get(attr Attribute) int {
	switch attr {
	case AttributeIntellect:
		return a.Intellect
	case AttributeLuck:
		return a.Luck
	}
	return 0
}

// Increment adds one point to the named attribute
func (a *Attributes) Increment(attr Attribute) {
	switch attr {
	case AttributeIntellect:
		a.Intellect++
	case AttributeLuck:
		a.Luck++
	}
}

// UserProfile is the player-facing identity record. It is shared by the
// skill allocator, the guild registry and the achievement evaluator.
type UserProfile struct {
	ID           string               `json:"id"`
	DisplayName  string               `json:"display_name"`
	Avatar       string               `json:"avatar,omitempty"`
	Title        string               `json:"title"`
	Attributes   Attributes           `json:"attributes"`
	SkillPoints  int                  `json:"skill_points"`
	Achievements map[string]time.Time `json:"achievements,omitempty"`
	GuildID      *string              `json:"guild_id,omitempty"`
	CreatedOn    time.Time            `json:"created_on"`
	UpdatedOn    time.Time            `json:"updated_on"`
}

// NewUserProfile returns the profile a user starts with
func NewUserProfile(userID, displayName, avatar string, now time.Time) *UserProfile {
	return &UserProfile{
		ID:           userID,
		DisplayName:  displayName,
		Avatar:       avatar,
		Title:        TitleForLevel(1),
		Achievements: map[string]time.Time{},
		CreatedOn:    now,
		UpdatedOn:    now,
	}
}

// InGuild reports whether the profile references a guild
func (p *UserProfile) InGuild() bool {
	return p.GuildID != nil && *p.GuildID != ""
}

// HasAchievement reports whether the achievement is already unlocked
func (p *UserProfile) HasAchievement(id string) bool {
	_, ok := p.Achievements[id]
	return ok
}

// UnlockAchievement records an unlock timestamp. An existing unlock is never
// overwritten; it reports whether the achievement was newly written.
func (p *UserProfile) UnlockAchievement(id string, at time.Time) bool {
	if p.HasAchievement(id) {
		return false
	}
	if p.Achievements == nil {
		p.Achievements = make(map[string]time.Time)
	}
	p.Achievements[id] = at
	return true
}

// Rank titles by minimum level
var titleLadder = []struct {
	minLevel int
	title    string
}{
	{6, "Sage"},
	{4, "Scholar"},
	{2, "Apprentice"},
	{1, "Novice"},
}

// TitleForLevel derives the rank label shown next to a player's name
func TitleForLevel(level int) string {
	for _, rung := range titleLadder {
		if level >= rung.minLevel {
			return rung.title
		}
	}
	return titleLadder[len(titleLadder)-1].title
}
