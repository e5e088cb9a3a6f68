// Package model defines domain entities and data structures for the Quest API.
//
// The model package contains the records stored in the document store, the
// static catalog entry types, request types and error definitions. Models are
// used across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - UserProfile: identity, attributes, skill points, achievements, guild reference
//   - UserProgress: experience, level, quest history and inventory
//   - Guild: a fellowship with one leader and a member set
//   - QuestModule: an immutable quest definition with its reward schedule
//   - Achievement and Item: static catalog entries
//
// # Invariants
//
// Mutating helpers on the entities keep their invariants local:
//
//	progress.GainXP(250)   // promotes while xp >= threshold(level)
//	guild.AddMember(id)    // set union, member_count follows the set
//	profile.UnlockAchievement(id, now) // never overwrites an unlock
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
