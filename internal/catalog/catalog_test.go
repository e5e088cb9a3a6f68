package catalog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/quest/internal/model"
)

func TestBonusPool_ItemsExist(t *testing.T) {
	pool := BonusPool()
	require.NotEmpty(t, pool)
	for _, id := range pool {
		_, ok := Item(id)
		assert.True(t, ok, "bonus pool item %q missing from catalog", id)
	}

	pool[0] = "mutated"
	assert.NotEqual(t, "mutated", BonusPool()[0])
}

func TestItems_SortedByID(t *testing.T) {
	all := Items()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].ID, all[i].ID)
	}
}

func TestLoadQuests_Testdata(t *testing.T) {
	c, err := LoadQuests("testdata/quests.yaml")
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	q, ok := c.Get("history-rivers-1")
	require.True(t, ok)
	assert.Equal(t, 250, q.Rewards.XP)
	assert.Equal(t, []string{"map_fragment", "quill"}, q.Rewards.Items)
	assert.Equal(t, "history", q.Subject)

	ids := make([]string, 0, c.Len())
	for _, q := range c.All() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"math-counting-1", "math-fractions-1", "science-plants-1", "history-rivers-1"}, ids)
}

func TestParseQuests_Invalid(t *testing.T) {
	tests := []struct {
		name string
		feed string
		want string
	}{
		{
			name: "missing id",
			feed: "quests:\n  - title: nameless\n    rewards: {xp: 1}\n",
			want: "id is required",
		},
		{
			name: "duplicate id",
			feed: "quests:\n  - id: a\n    rewards: {xp: 1}\n  - id: a\n    rewards: {xp: 2}\n",
			want: "duplicate id",
		},
		{
			name: "negative xp",
			feed: "quests:\n  - id: a\n    rewards: {xp: -5}\n",
			want: "must not be negative",
		},
		{
			name: "unknown item",
			feed: "quests:\n  - id: a\n    rewards: {xp: 1, items: [dragon_egg]}\n",
			want: `unknown item "dragon_egg"`,
		},
		{
			name: "unknown requirement",
			feed: "quests:\n  - id: a\n    rewards: {xp: 1, unlock_requirements: [b]}\n",
			want: `unknown unlock requirement "b"`,
		},
		{
			name: "unknown field",
			feed: "quests:\n  - id: a\n    difficulty: hard\n",
			want: "difficulty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuests(strings.NewReader(tt.feed))
			require.ErrorIs(t, err, ErrInvalidQuestFeed)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseQuests_Empty(t *testing.T) {
	c, err := ParseQuests(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestQuestCatalog_Unlocked(t *testing.T) {
	c, err := LoadQuests("testdata/quests.yaml")
	require.NoError(t, err)

	progress := model.NewUserProgress("u1", time.Now())
	got := c.Unlocked(progress)
	assert.True(t, got["math-counting-1"])
	assert.False(t, got["math-fractions-1"])
	assert.False(t, got["history-rivers-1"])

	progress.RecordCompletion("math-counting-1", time.Now())
	got = c.Unlocked(progress)
	assert.True(t, got["math-fractions-1"])
	assert.False(t, got["history-rivers-1"], "needs both requirements")

	progress.RecordCompletion("science-plants-1", time.Now())
	assert.True(t, c.Unlocked(progress)["history-rivers-1"])
}

func TestAchievements_Rules(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	profile := model.NewUserProfile("u1", "Ada", "", now)

	earned := func(progress *model.UserProgress) []string {
		var ids []string
		for _, a := range Achievements() {
			if a.Earned(profile, progress) {
				ids = append(ids, a.ID)
			}
		}
		return ids
	}

	progress := model.NewUserProgress("u1", now)
	assert.Empty(t, earned(progress))

	progress.RecordCompletion("math-counting-1", now)
	assert.ElementsMatch(t, []string{"first_steps", "math_scholar"}, earned(progress))

	progress.Level = 5
	for _, id := range []string{"science-a", "history-b", "art-c", "art-d"} {
		progress.RecordCompletion(id, now)
	}
	assert.ElementsMatch(t, []string{
		"first_steps", "level_2", "level_5", "quest_veteran",
		"math_scholar", "science_scholar", "history_scholar",
	}, earned(progress))
}

func TestAchievement_Lookup(t *testing.T) {
	a, ok := Achievement("quest_veteran")
	require.True(t, ok)
	assert.Equal(t, "Quest Veteran", a.Name)

	_, ok = Achievement("nope")
	assert.False(t, ok)
}

func TestSubjectPrefix_RequiresDash(t *testing.T) {
	progress := model.NewUserProgress("u1", time.Now())
	progress.RecordCompletion("mathematics101", time.Now())
	assert.False(t, completedSubject("math")(nil, progress))
}
