package model

import (
	"slices"
	"time"
)

// Guild represents a fellowship of players led by a single leader
type Guild struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Emblem      string    `json:"emblem,omitempty"`
	LeaderID    string    `json:"leader_id"`
	Members     []string  `json:"members"`
	MemberCount int       `json:"member_count"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// Business constraints
const (
	MaxMembersPerGuild = 50

	MaxGuildNameLength = 100
	MaxGuildDescLength = 500
)

// HasMember reports whether userID belongs to the guild
func (g *Guild) HasMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}

// AddMember adds userID to the member set. Adding an existing member is a
// no-op, so the operation is a set union. It reports whether the set grew.
func (g *Guild) AddMember(userID string) bool {
	if g.HasMember(userID) {
		return false
	}
	g.Members = append(g.Members, userID)
	g.MemberCount = len(g.Members)
	return true
}

// RemoveMember removes userID from the member set and reports whether it
// was present.
func (g *Guild) RemoveMember(userID string) bool {
	idx := slices.Index(g.Members, userID)
	if idx < 0 {
		return false
	}
	g.Members = slices.Delete(g.Members, idx, idx+1)
	g.MemberCount = len(g.Members)
	return true
}

// Consistent reports whether the guild satisfies its structural invariants:
// a non-empty unique member set containing the leader, and a member count
// equal to the set size.
func (g *Guild) Consistent() bool {
	if len(g.Members) == 0 || g.MemberCount != len(g.Members) {
		return false
	}
	seen := make(map[string]struct{}, len(g.Members))
	for _, m := range g.Members {
		if _, dup := seen[m]; dup {
			return false
		}
		seen[m] = struct{}{}
	}
	_, ok := seen[g.LeaderID]
	return ok
}

// CreateGuildRequest represents a request to create a guild
type CreateGuildRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Emblem      string `json:"emblem,omitempty"`
}
