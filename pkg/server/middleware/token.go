package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/zazapeta/restify/pkg/credentials"
	"github.com/zazapeta/restify/pkg/restify"
	"github.com/zazapeta/restify/pkg/token"
)

// TokenAuthorizer is the default authorization handler for the header-token
// flow. It verifies the signed token from the configured header, resolves the
// identity record it names and derives the role tag.
type TokenAuthorizer struct {
	Tokens      *token.Service
	Credentials *credentials.Store
	HeaderName  string
	RoleDeriver token.RoleDeriver
}

// NewTokenAuthorizer creates a new token authorizer.
func NewTokenAuthorizer(tokens *token.Service, creds *credentials.Store, headerName string, deriver token.RoleDeriver) *TokenAuthorizer {
	if headerName == "" {
		headerName = "Authorization"
	}
	if deriver == nil {
		deriver = token.DefaultRoleDeriver
	}
	return &TokenAuthorizer{
		Tokens:      tokens,
		Credentials: creds,
		HeaderName:  headerName,
		RoleDeriver: deriver,
	}
}

// Authorize evaluates one request. An absent, malformed or stale token comes
// back as an unauthenticated result, never an error that would crash a route.
func (a *TokenAuthorizer) Authorize(r *http.Request) (restify.Result, error) {
	raw := r.Header.Get(a.HeaderName)
	if raw == "" {
		return restify.Result{}, nil
	}
	raw = strings.TrimPrefix(raw, "Bearer ")

	subject, err := a.Tokens.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrInvalidToken) {
			return restify.Result{}, nil
		}
		return restify.Result{}, err
	}

	identity, err := a.Credentials.Lookup(r.Context(), subject)
	if err != nil {
		// A valid token for a record that no longer exists is just an
		// unauthenticated request.
		return restify.Result{}, nil
	}

	return restify.Result{
		Authenticated: true,
		Identity:      identity,
		Role:          a.RoleDeriver(r, identity),
	}, nil
}

// Handler adapts the authorizer to the auth handler signature.
func (a *TokenAuthorizer) Handler() restify.AuthHandlerFunc {
	return a.Authorize
}
