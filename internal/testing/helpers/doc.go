// Package helpers provides test utilities for the quest API handlers.
//
// # JWT Helpers
//
// Sign RS256 tokens with a throwaway key and verify them with the matching
// middleware.TokenVerifier:
//
//	jwtHelper := helpers.NewJWTHelper(t)
//	auth := middleware.Auth(jwtHelper.Verifier())
//	token := jwtHelper.GenerateToken("user-1", "Ada")
//
// # Requests and Assertions
//
//	rr := helpers.NewRequest(t, http.MethodPost, "/v1/guilds").
//	    WithToken(token).
//	    WithBody(model.CreateGuildRequest{Name: "Lamplighters"}).
//	    Serve(mux)
//	helpers.AssertStatus(t, rr, http.StatusCreated)
//	helpers.DecodeData(t, rr, &guild)
package helpers
