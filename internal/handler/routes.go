package handler

import (
	"net/http"

	"github.com/forgo/quest/internal/middleware"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Me           *MeHandler
	Quests       *QuestHandler
	Skills       *SkillHandler
	Achievements *AchievementHandler
	Guilds       *GuildHandler
}

// RegisterRoutes mounts the API on mux. protect wraps every route except
// /health and must at least authenticate the caller.
func (h *Handlers) RegisterRoutes(mux *http.ServeMux, protect ...middleware.Middleware) {
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, middleware.Chain(fn, protect...))
	}

	mux.HandleFunc("GET /health", Health)

	// Own records
	route("POST /v1/me", h.Me.Ensure)
	route("GET /v1/me/profile", h.Me.Profile)
	route("GET /v1/me/progress", h.Me.Progress)
	route("GET /v1/me/progress/stream", h.Me.Stream)
	route("POST /v1/me/skills/{attribute}", h.Skills.Spend)
	route("POST /v1/me/achievements/check", h.Achievements.Check)

	// Quests
	route("GET /v1/quests", h.Quests.List)
	route("POST /v1/quests/{questId}/complete", h.Quests.Complete)

	// Guilds
	route("POST /v1/guilds", h.Guilds.Create)
	route("GET /v1/guilds/{guildId}", h.Guilds.Get)
	route("POST /v1/guilds/{guildId}/join", h.Guilds.Join)
	route("POST /v1/guilds/{guildId}/leave", h.Guilds.Leave)
}
