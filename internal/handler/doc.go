// Package handler provides the HTTP handlers of the quest API.
//
// Each handler struct wraps the services one feature area needs. Handlers
// read the caller from the auth middleware, call one service operation and
// write either a DataResponse envelope or an RFC 9457 Problem Details body.
// Service errors are translated in one place, MapServiceError:
//
//   - not found              → 404
//   - invariant violation    → 409
//   - validation             → 422
//   - transaction conflict   → 503 with Retry-After
//
// # Routes
//
//	handlers := &handler.Handlers{Me: ..., Quests: ..., Skills: ..., Achievements: ..., Guilds: ...}
//	mux := http.NewServeMux()
//	handlers.RegisterRoutes(mux, middleware.Auth(verifier), middleware.RateLimit(limiter))
//
// GET /v1/me/progress/stream is a server-sent event stream of the caller's
// committed progress, fed by service.ProgressFeed.
package handler
