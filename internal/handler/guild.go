package handler

import (
	"net/http"

	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/service"
)

// GuildHandler handles guild HTTP requests
type GuildHandler struct {
	svc *service.GuildService
}

// NewGuildHandler creates a new guild handler
func NewGuildHandler(svc *service.GuildService) *GuildHandler {
	return &GuildHandler{svc: svc}
}

func guildLinks(guildID string) map[string]string {
	return map[string]string{
		"self":  "/v1/guilds/" + guildID,
		"join":  "/v1/guilds/" + guildID + "/join",
		"leave": "/v1/guilds/" + guildID + "/leave",
	}
}

// Create handles POST /v1/guilds - create a guild led by the caller
func (h *GuildHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.CreateGuildRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	guild, err := h.svc.CreateGuild(r.Context(), userID, req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusCreated, guild, guildLinks(guild.ID))
}

// Get handles GET /v1/guilds/{guildId}
func (h *GuildHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	guildID := r.PathValue("guildId")
	guild, err := h.svc.GetGuild(r.Context(), guildID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, guild, guildLinks(guildID))
}

// Join handles POST /v1/guilds/{guildId}/join
func (h *GuildHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	guildID := r.PathValue("guildId")
	guild, err := h.svc.JoinGuild(r.Context(), guildID, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, guild, guildLinks(guildID))
}

// Leave handles POST /v1/guilds/{guildId}/leave
func (h *GuildHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.LeaveGuild(r.Context(), r.PathValue("guildId"), userID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteNoContent(w)
}
