package catalog

import "github.com/forgo/quest/internal/model"

// Rule decides whether an achievement is earned by the given state
type Rule func(profile *model.UserProfile, progress *model.UserProgress) bool

// AchievementRule pairs an achievement with its unlock rule
type AchievementRule struct {
	model.Achievement
	Earned Rule
}

var achievements = []AchievementRule{
	{
		Achievement: model.Achievement{ID: "first_steps", Name: "First Steps", Description: "Complete your first quest."},
		Earned:      completedAtLeast(1),
	},
	{
		Achievement: model.Achievement{ID: "level_2", Name: "Rising Star", Description: "Reach level 2."},
		Earned:      levelAtLeast(2),
	},
	{
		Achievement: model.Achievement{ID: "level_5", Name: "Seasoned Scholar", Description: "Reach level 5."},
		Earned:      levelAtLeast(5),
	},
	{
		Achievement: model.Achievement{ID: "quest_veteran", Name: "Quest Veteran", Description: "Complete five different quests."},
		Earned:      completedAtLeast(5),
	},
	{
		Achievement: model.Achievement{ID: "math_scholar", Name: "Math Scholar", Description: "Complete a math quest."},
		Earned:      completedSubject("math"),
	},
	{
		Achievement: model.Achievement{ID: "science_scholar", Name: "Science Scholar", Description: "Complete a science quest."},
		Earned:      completedSubject("science"),
	},
	{
		Achievement: model.Achievement{ID: "history_scholar", Name: "History Scholar", Description: "Complete a history quest."},
		Earned:      completedSubject("history"),
	},
}

// Achievements returns the achievement catalog in evaluation order
func Achievements() []AchievementRule {
	out := make([]AchievementRule, len(achievements))
	copy(out, achievements)
	return out
}

// Achievement looks up an achievement definition by id
func Achievement(id string) (model.Achievement, bool) {
	for _, a := range achievements {
		if a.ID == id {
			return a.Achievement, true
		}
	}
	return model.Achievement{}, false
}

func completedAtLeast(n int) Rule {
	return func(_ *model.UserProfile, progress *model.UserProgress) bool {
		count := 0
		for _, history := range progress.CompletedQuests {
			if len(history) > 0 {
				count++
			}
		}
		return count >= n
	}
}

func levelAtLeast(level int) Rule {
	return func(_ *model.UserProfile, progress *model.UserProgress) bool {
		return progress.Level >= level
	}
}

func completedSubject(subject string) Rule {
	return func(_ *model.UserProfile, progress *model.UserProgress) bool {
		for questID, history := range progress.CompletedQuests {
			if len(history) > 0 && model.HasSubjectPrefix(questID, subject) {
				return true
			}
		}
		return false
	}
}
