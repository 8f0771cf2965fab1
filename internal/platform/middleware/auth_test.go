package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"veritas/internal/platform/logger"
	"veritas/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return v.claims, v.err
}

func ownerEcho() (http.Handler, *string) {
	var owner string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner = requestcontext.OwnerID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &owner
}

func TestOwnerIdentityNoHeaderIsAnonymous(t *testing.T) {
	next, owner := ownerEcho()
	handler := OwnerIdentity(stubValidator{}, logger.Discard())(next)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, requestcontext.AnonymousOwner, *owner)
}

func TestOwnerIdentityValidToken(t *testing.T) {
	next, owner := ownerEcho()
	handler := OwnerIdentity(stubValidator{claims: &JWTClaims{OwnerID: "ranger-17"}}, logger.Discard())(next)

	r := httptest.NewRequest(http.MethodGet, "/records", nil)
	r.Header.Set("Authorization", "Bearer some-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ranger-17", *owner)
}

func TestOwnerIdentityInvalidTokenRejected(t *testing.T) {
	next, _ := ownerEcho()
	handler := OwnerIdentity(stubValidator{err: errors.New("expired")}, logger.Discard())(next)

	r := httptest.NewRequest(http.MethodGet, "/records", nil)
	r.Header.Set("Authorization", "Bearer bad-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnerIdentityMalformedHeaderRejected(t *testing.T) {
	next, _ := ownerEcho()
	handler := OwnerIdentity(stubValidator{}, logger.Discard())(next)

	r := httptest.NewRequest(http.MethodGet, "/records", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth(t *testing.T) {
	next, _ := ownerEcho()
	handler := RequireAuth(stubValidator{claims: &JWTClaims{OwnerID: "ranger-17"}}, logger.Discard())(next)

	// Missing token is rejected outright.
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/remote/records", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A valid token passes.
	r := httptest.NewRequest(http.MethodGet, "/remote/records", nil)
	r.Header.Set("Authorization", "Bearer some-token")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
