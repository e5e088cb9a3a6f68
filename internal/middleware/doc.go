// Package middleware provides HTTP middleware for the quest API.
//
// # Available Middleware
//
//   - RequestID: propagates or generates X-Request-ID
//   - Logger: one structured slog line per request
//   - Recovery: turns panics into 500 problem responses
//   - CORS: origin allow-list
//   - Auth: RS256 bearer token validation, subject becomes the user id
//   - RateLimit: per-user token bucket
//
// # Ordering
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger(logger),
//	    middleware.Recovery,
//	    middleware.CORS(origins),
//	)
//
// Auth and RateLimit wrap individual routes, so /health stays public.
//
// # Context Values
//
//   - GetUserID(ctx): authenticated user id (token subject)
//   - GetClaims(ctx): full token claims
//   - GetRequestID(ctx): request identifier
package middleware
