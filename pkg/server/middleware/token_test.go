package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zazapeta/restify/pkg/credentials"
	"github.com/zazapeta/restify/pkg/store"
	"github.com/zazapeta/restify/pkg/token"
)

type member struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type memberStore struct {
	store.EntityStore
	records map[string]*member
}

func (m *memberStore) FindByField(_ context.Context, _ any, field string, value any) (any, error) {
	if field != "email" {
		return nil, store.ErrNotFound
	}
	rec, ok := m.records[value.(string)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func newAuthorizer(t *testing.T, ttl time.Duration, records map[string]*member) (*TokenAuthorizer, *token.Service) {
	t.Helper()
	tokens, err := token.NewService([]byte("test-secret"), ttl)
	require.NoError(t, err)
	creds, err := credentials.New(&member{}, &memberStore{records: records}, "email", "password", credentials.Config{Iterations: 16})
	require.NoError(t, err)
	return NewTokenAuthorizer(tokens, creds, "Authorization", nil), tokens
}

func TestAuthorizeValidToken(t *testing.T) {
	auth, tokens := newAuthorizer(t, time.Minute, map[string]*member{
		"alice@example.com": {ID: 1, Email: "alice@example.com", Password: "x", Role: "admin"},
	})

	signed, err := tokens.Issue("alice@example.com")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	result, err := auth.Authorize(r)
	require.NoError(t, err)
	assert.True(t, result.Authenticated)
	assert.Equal(t, "admin", result.Role)
	assert.Equal(t, "alice@example.com", result.Identity["email"])
	assert.NotContains(t, result.Identity, "password")
}

func TestAuthorizeAcceptsBareToken(t *testing.T) {
	auth, tokens := newAuthorizer(t, time.Minute, map[string]*member{
		"alice@example.com": {ID: 1, Email: "alice@example.com", Password: "x"},
	})

	signed, err := tokens.Issue("alice@example.com")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set("Authorization", signed)

	result, err := auth.Authorize(r)
	require.NoError(t, err)
	assert.True(t, result.Authenticated)
	// Role falls back to "user" when the record carries none.
	assert.Equal(t, "user", result.Role)
}

func TestAuthorizeUnauthenticatedOutcomes(t *testing.T) {
	auth, tokens := newAuthorizer(t, time.Minute, map[string]*member{
		"alice@example.com": {ID: 1, Email: "alice@example.com", Password: "x"},
	})

	// Missing header.
	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	result, err := auth.Authorize(r)
	require.NoError(t, err)
	assert.False(t, result.Authenticated)

	// Garbage token.
	r = httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	result, err = auth.Authorize(r)
	require.NoError(t, err)
	assert.False(t, result.Authenticated)

	// Valid token naming a vanished identity.
	signed, err := tokens.Issue("ghost@example.com")
	require.NoError(t, err)
	r = httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	result, err = auth.Authorize(r)
	require.NoError(t, err)
	assert.False(t, result.Authenticated)
}

func TestAuthorizeExpiredToken(t *testing.T) {
	auth, tokens := newAuthorizer(t, -time.Minute, map[string]*member{
		"alice@example.com": {ID: 1, Email: "alice@example.com", Password: "x"},
	})

	signed, err := tokens.Issue("alice@example.com")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	result, err := auth.Authorize(r)
	require.NoError(t, err)
	assert.False(t, result.Authenticated)
}
