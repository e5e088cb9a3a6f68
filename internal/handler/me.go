package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/forgo/quest/internal/middleware"
	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/service"
)

// MeHandler serves the authenticated user's own records
type MeHandler struct {
	profiles *service.ProfileService
	feed     *service.ProgressFeed
}

// NewMeHandler creates a new handler for /v1/me routes. feed may be nil,
// in which case the stream endpoint reports 503.
func NewMeHandler(profiles *service.ProfileService, feed *service.ProgressFeed) *MeHandler {
	return &MeHandler{profiles: profiles, feed: feed}
}

// EnsureUserRequest optionally overrides the identity taken from the token
type EnsureUserRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// requireUser returns the authenticated user id or writes a 401
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return "", false
	}
	return userID, true
}

// Ensure handles POST /v1/me - create the user's records on first login
func (h *MeHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req EnsureUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		if req.DisplayName == "" {
			req.DisplayName = claims.Name
		}
		if req.Avatar == "" {
			req.Avatar = claims.Picture
		}
	}

	profile, err := h.profiles.EnsureUser(r.Context(), userID, req.DisplayName, req.Avatar)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, profile, map[string]string{
		"self":     "/v1/me/profile",
		"progress": "/v1/me/progress",
	})
}

// Profile handles GET /v1/me/profile
func (h *MeHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, profile, nil)
}

// Progress handles GET /v1/me/progress
func (h *MeHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	progress, err := h.profiles.GetProgress(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}
	WriteData(w, http.StatusOK, progress, map[string]string{
		"stream": "/v1/me/progress/stream",
	})
}

// Stream handles GET /v1/me/progress/stream, sending every committed
// progress snapshot of the user as a server-sent event
func (h *MeHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if h.feed == nil {
		WriteError(w, model.NewUnavailableError("progress stream disabled", 0))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, model.NewInternalError("streaming not supported"))
		return
	}

	// The server write timeout would otherwise cut the stream
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	sub := h.feed.Subscribe(userID)
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	fmt.Fprintf(w, "event: connected\ndata: {\"user_id\":%q}\n\n", userID)
	flusher.Flush()

	for {
		select {
		case progress, ok := <-sub.Updates():
			if !ok {
				return
			}
			data, err := json.Marshal(progress)
			if err != nil {
				return
			}
			fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
