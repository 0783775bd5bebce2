// Package token issues and verifies the signed identity claims used by the
// default header-token authorization flow.
package token

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for any token that cannot be
// accepted: bad signature, malformed payload, expiry, wrong algorithm.
var ErrInvalidToken = errors.New("token: invalid token")

// RoleDeriver produces the role tag for an authenticated request. The role is
// only used as a selector key into role-keyed auth/query mappings.
type RoleDeriver func(r *http.Request, identity map[string]any) string

// DefaultRoleDeriver reads a "role" field off the identity record and falls
// back to "user".
func DefaultRoleDeriver(_ *http.Request, identity map[string]any) string {
	if role, ok := identity["role"].(string); ok && role != "" {
		return role
	}
	return "user"
}

// Service signs and verifies HS256 tokens with a server-held secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService builds a token service. A zero ttl disables expiry claims.
func NewService(secret []byte, ttl time.Duration) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: signing secret is required")
	}
	return &Service{secret: secret, ttl: ttl}, nil
}

// Issue signs a token for the given subject.
func (s *Service) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
	}
	if s.ttl != 0 {
		claims["exp"] = now.Add(s.ttl).Unix()
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: signing failed: %w", err)
	}
	return signed, nil
}

// Verify checks the signature (and expiry, when present) and returns the
// subject. Every failure mode, including malformed input, comes back as an
// error wrapping ErrInvalidToken; nothing escapes as a panic.
func (s *Service) Verify(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	subject, err := tok.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return subject, nil
}
