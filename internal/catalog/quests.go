package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/forgo/quest/internal/model"
)

// ErrInvalidQuestFeed is returned when a quest feed fails validation
var ErrInvalidQuestFeed = errors.New("invalid quest feed")

// questFeed is the on-disk layout of a quest feed
type questFeed struct {
	Quests []model.QuestModule `yaml:"quests"`
}

// QuestCatalog is an immutable, validated set of quest definitions
type QuestCatalog struct {
	order  []string
	quests map[string]model.QuestModule
}

// LoadQuests reads and validates a YAML quest feed from path
func LoadQuests(path string) (*QuestCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quest feed: %w", err)
	}
	defer f.Close()
	return ParseQuests(f)
}

// ParseQuests decodes and validates a YAML quest feed. Unknown fields are
// rejected.
func ParseQuests(r io.Reader) (*QuestCatalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var feed questFeed
	if err := dec.Decode(&feed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuestFeed, err)
	}
	return NewQuestCatalog(feed.Quests)
}

// NewQuestCatalog validates quests and builds a catalog preserving their
// order
func NewQuestCatalog(quests []model.QuestModule) (*QuestCatalog, error) {
	c := &QuestCatalog{
		order:  make([]string, 0, len(quests)),
		quests: make(map[string]model.QuestModule, len(quests)),
	}

	var errs []error
	for i, q := range quests {
		if q.ID == "" {
			errs = append(errs, fmt.Errorf("quest %d: id is required", i))
			continue
		}
		if _, dup := c.quests[q.ID]; dup {
			errs = append(errs, fmt.Errorf("quest %s: duplicate id", q.ID))
			continue
		}
		if q.Rewards.XP < 0 {
			errs = append(errs, fmt.Errorf("quest %s: xp must not be negative", q.ID))
		}
		for _, itemID := range q.Rewards.Items {
			if _, ok := Item(itemID); !ok {
				errs = append(errs, fmt.Errorf("quest %s: unknown item %q", q.ID, itemID))
			}
		}
		c.order = append(c.order, q.ID)
		c.quests[q.ID] = q
	}

	for _, id := range c.order {
		for _, req := range c.quests[id].Rewards.UnlockRequirements {
			if _, ok := c.quests[req]; !ok {
				errs = append(errs, fmt.Errorf("quest %s: unknown unlock requirement %q", id, req))
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuestFeed, err)
	}
	return c, nil
}

// Get looks up a quest by id
func (c *QuestCatalog) Get(id string) (model.QuestModule, bool) {
	q, ok := c.quests[id]
	return q, ok
}

// All returns every quest in feed order
func (c *QuestCatalog) All() []model.QuestModule {
	out := make([]model.QuestModule, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.quests[id])
	}
	return out
}

// Len returns the number of quests
func (c *QuestCatalog) Len() int {
	return len(c.order)
}

// Unlocked reports, per quest id, whether every unlock requirement has
// been completed. It is advisory: completion does not enforce it.
func (c *QuestCatalog) Unlocked(progress *model.UserProgress) map[string]bool {
	out := make(map[string]bool, len(c.order))
	for _, id := range c.order {
		unlocked := true
		for _, req := range c.quests[id].Rewards.UnlockRequirements {
			if progress == nil || !progress.HasCompleted(req) {
				unlocked = false
				break
			}
		}
		out[id] = unlocked
	}
	return out
}
