package handler

import (
	"net/http"

	"github.com/forgo/quest/internal/service"
)

// AchievementHandler handles on-demand achievement evaluation
type AchievementHandler struct {
	achievements *service.AchievementService
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(achievements *service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

// CheckResponse lists achievements unlocked by one evaluation
type CheckResponse struct {
	NewAchievements []string `json:"new_achievements"`
}

// Check handles POST /v1/me/achievements/check
func (h *AchievementHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ids, err := h.achievements.CheckForNewAchievements(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	WriteData(w, http.StatusOK, CheckResponse{NewAchievements: ids}, nil)
}
