package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ============================================================================
// Test Helpers
// ============================================================================

// staticAuth accepts any token as the given subject
type staticAuth string

func (s staticAuth) ValidateAccessToken(string) (*Claims, error) {
	return &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: string(s)}}, nil
}

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(subject string) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "quest-test",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Name: "Ada",
	}
}

// ============================================================================
// TokenVerifier Tests
// ============================================================================

func TestTokenVerifier(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)
	other := newTestKey(t)
	verifier := NewTokenVerifier(&key.PublicKey, "quest-test")

	expired := validClaims("u1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := validClaims("u1")
	wrongIssuer.Issuer = "someone-else"
	noExpiry := validClaims("u1")
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", signToken(t, key, jwt.SigningMethodRS256, validClaims("u1")), false},
		{"expired", signToken(t, key, jwt.SigningMethodRS256, expired), true},
		{"wrong key", signToken(t, other, jwt.SigningMethodRS256, validClaims("u1")), true},
		{"wrong issuer", signToken(t, key, jwt.SigningMethodRS256, wrongIssuer), true},
		{"no expiry", signToken(t, key, jwt.SigningMethodRS256, noExpiry), true},
		{"no subject", signToken(t, key, jwt.SigningMethodRS256, validClaims("")), true},
		{"wrong alg", signToken(t, key, jwt.SigningMethodRS512, validClaims("u1")), true},
		{"garbage", "not.a.token", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := verifier.ValidateAccessToken(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got claims %+v", claims)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claims.Subject != "u1" || claims.Name != "Ada" {
				t.Errorf("unexpected claims %+v", claims)
			}
		})
	}
}

func TestLoadTokenVerifier_FromPEM(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "jwt.pub")
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	verifier, err := LoadTokenVerifier(path, "")
	if err != nil {
		t.Fatalf("load verifier: %v", err)
	}
	if _, err := verifier.ValidateAccessToken(signToken(t, key, jwt.SigningMethodRS256, validClaims("u1"))); err != nil {
		t.Errorf("expected token to verify: %v", err)
	}

	if _, err := LoadTokenVerifier(filepath.Join(t.TempDir(), "missing.pub"), ""); err == nil {
		t.Error("expected error for missing key file")
	}
}

// ============================================================================
// Auth Middleware Tests
// ============================================================================

func TestAuth_Middleware(t *testing.T) {
	t.Parallel()

	key := newTestKey(t)
	verifier := NewTokenVerifier(&key.PublicKey, "")
	expired := validClaims("u1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"valid token", "Bearer " + signToken(t, key, jwt.SigningMethodRS256, validClaims("u1")), http.StatusOK, "u1"},
		{"lowercase scheme", "bearer " + signToken(t, key, jwt.SigningMethodRS256, validClaims("u2")), http.StatusOK, "u2"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"expired", "Bearer " + signToken(t, key, jwt.SigningMethodRS256, expired), http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser string
			var gotClaims *Claims
			handler := Auth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = GetUserID(r.Context())
				gotClaims = GetClaims(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if gotUser != tt.wantUser {
				t.Errorf("expected user %q, got %q", tt.wantUser, gotUser)
			}
			if tt.wantUser != "" && (gotClaims == nil || gotClaims.Subject != tt.wantUser) {
				t.Errorf("expected claims for %q, got %+v", tt.wantUser, gotClaims)
			}
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := GetUserID(req.Context()); id != "" {
		t.Errorf("expected empty user id, got %q", id)
	}
	if claims := GetClaims(req.Context()); claims != nil {
		t.Errorf("expected nil claims, got %+v", claims)
	}
}
