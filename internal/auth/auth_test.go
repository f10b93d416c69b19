package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewAuthService("test-secret")

	token, err := svc.IssueJWT(5, time.Minute)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Parse(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	assert.Equal(t, "evaluation-server", claims.Issuer)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, err := NewAuthService("secret-a").IssueJWT(5, time.Minute)
	assert.NoError(t, err)

	_, err = NewAuthService("secret-b").Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService("test-secret")

	token, err := svc.IssueJWT(5, -time.Minute)
	assert.NoError(t, err)

	_, err = svc.Parse(token)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	svc := NewAuthService("test-secret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	protected := Middleware(svc)(next)

	t.Run("valid token passes through", func(t *testing.T) {
		token, err := svc.IssueJWT(5, time.Minute)
		assert.NoError(t, err)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/5/softwares", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/5/softwares", nil)
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing bearer token")
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/5/softwares", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid token")
	})
}
