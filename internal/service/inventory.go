package service

import (
	"math/rand/v2"

	"github.com/forgo/quest/internal/catalog"
)

// bonusChancePercent is the chance, per luck point, of one bonus item
const bonusChancePercent = 1

// Roller yields uniform integers in [0, n)
type Roller interface {
	IntN(n int) int
}

// newRoller returns a deterministic roller for seed, so every attempt of
// one completion draws the same sequence
func newRoller(seed uint64) Roller {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Rewards is the item outcome of one quest completion
type Rewards struct {
	Items      []string
	BonusItems []string
}

// AccumulateRewards grants every base item and makes luck independent
// rolls, each adding one bonus item from the bonus pool with a 1% chance.
func AccumulateRewards(items []string, luck int, roll Roller) Rewards {
	rewards := Rewards{Items: append([]string(nil), items...)}

	pool := catalog.BonusPool()
	if len(pool) == 0 || roll == nil {
		return rewards
	}
	for range max(luck, 0) {
		if roll.IntN(100) < bonusChancePercent {
			rewards.BonusItems = append(rewards.BonusItems, pool[roll.IntN(len(pool))])
		}
	}
	return rewards
}

// MergeInto increments inventory counts for every awarded item and returns
// the inventory, allocating it if nil. Counts are never decremented.
func (r Rewards) MergeInto(inventory map[string]int) map[string]int {
	if inventory == nil {
		inventory = make(map[string]int, len(r.Items)+len(r.BonusItems))
	}
	for _, id := range r.Items {
		inventory[id]++
	}
	for _, id := range r.BonusItems {
		inventory[id]++
	}
	return inventory
}
