package handler

import (
	"errors"
	"net/http"

	"github.com/forgo/quest/internal/catalog"
	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/service"
)

// QuestHandler serves the quest feed and quest completion
type QuestHandler struct {
	quests      *catalog.QuestCatalog
	profiles    *service.ProfileService
	progression *service.ProgressionService
}

// NewQuestHandler creates a new quest handler
func NewQuestHandler(quests *catalog.QuestCatalog, profiles *service.ProfileService, progression *service.ProgressionService) *QuestHandler {
	return &QuestHandler{quests: quests, profiles: profiles, progression: progression}
}

// QuestView is one quest as seen by a user
type QuestView struct {
	model.QuestModule
	Unlocked  bool `json:"unlocked"`
	Completed bool `json:"completed"`
}

// List handles GET /v1/quests
func (h *QuestHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	progress, err := h.profiles.GetProgress(r.Context(), userID)
	if err != nil && !errors.Is(err, service.ErrProfileNotFound) {
		WriteError(w, MapServiceError(err))
		return
	}

	unlocked := h.quests.Unlocked(progress)
	views := make([]QuestView, 0, h.quests.Len())
	for _, q := range h.quests.All() {
		views = append(views, QuestView{
			QuestModule: q,
			Unlocked:    unlocked[q.ID],
			Completed:   progress != nil && progress.HasCompleted(q.ID),
		})
	}
	WriteData(w, http.StatusOK, views, nil)
}

// Complete handles POST /v1/quests/{questId}/complete
func (h *QuestHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	quest, found := h.quests.Get(r.PathValue("questId"))
	if !found {
		WriteError(w, MapServiceError(service.ErrQuestNotFound))
		return
	}

	result, err := h.progression.CompleteQuest(r.Context(), userID, quest)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, result, map[string]string{
		"progress": "/v1/me/progress",
	})
}
