package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"summarylab/internal/apperr"
	"summarylab/internal/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)

	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "user_123",
		"aud": "convex",
		"azp": "http://localhost:3000",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/summarization", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func newResolver(t *testing.T) *auth.JWTResolver {
	t.Helper()

	resolver, err := auth.NewJWTResolver(secret, "convex", []string{"http://localhost:3000"})
	require.NoError(t, err)

	return resolver
}

func TestResolveIdentity(t *testing.T) {
	userID, err := newResolver(t).ResolveIdentity(requestWithToken(sign(t, secret, validClaims())))

	require.NoError(t, err)
	assert.Equal(t, "user_123", userID)
}

func TestResolveIdentityFailures(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	wrongAudience := validClaims()
	wrongAudience["aud"] = "other"

	wrongParty := validClaims()
	wrongParty["azp"] = "https://evil.example.com"

	noSubject := validClaims()
	delete(noSubject, "sub")

	noExpiry := validClaims()
	delete(noExpiry, "exp")

	tests := []struct {
		name   string
		token  string
		reason string
	}{
		{"missing token", "", "missing bearer token"},
		{"garbage", "not-a-jwt", "token-invalid"},
		{"expired", sign(t, secret, expired), "token-expired"},
		{"wrong audience", sign(t, secret, wrongAudience), "token-invalid-audience"},
		{"wrong signature", sign(t, "other-secret", validClaims()), "token-invalid-signature"},
		{"wrong party", sign(t, secret, wrongParty), "token-invalid-authorized-parties"},
		{"no subject", sign(t, secret, noSubject), "token-missing-subject"},
		{"no expiry", sign(t, secret, noExpiry), "token-missing-claim"},
	}

	resolver := newResolver(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.ResolveIdentity(requestWithToken(tt.token))
			require.Error(t, err)

			appErr, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, appErr.Status)
			assert.Equal(t, tt.reason, appErr.Detail)
		})
	}
}

func TestResolveIdentityRejectsOtherSchemes(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/summarization", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	_, err := newResolver(t).ResolveIdentity(r)
	assert.True(t, apperr.IsKind(err, apperr.KindAuth))
}

func TestNewJWTResolverRequiresSecret(t *testing.T) {
	_, err := auth.NewJWTResolver("", "convex", nil)
	assert.Error(t, err)
}
