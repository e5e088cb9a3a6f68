package handler

import (
	"net/http"

	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/service"
)

// SkillHandler handles skill point allocation
type SkillHandler struct {
	skills   *service.SkillService
	profiles *service.ProfileService
}

// NewSkillHandler creates a new skill handler
func NewSkillHandler(skills *service.SkillService, profiles *service.ProfileService) *SkillHandler {
	return &SkillHandler{skills: skills, profiles: profiles}
}

// Spend handles POST /v1/me/skills/{attribute} and returns the updated
// profile
func (h *SkillHandler) Spend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	attr := model.Attribute(r.PathValue("attribute"))
	if err := h.skills.SpendSkillPoint(r.Context(), userID, attr); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, profile, nil)
}
