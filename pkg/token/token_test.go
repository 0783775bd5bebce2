package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService(nil, 0)
	assert.Error(t, err)

	svc, err := NewService([]byte("secret"), 0)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc, err := NewService([]byte("s3cret"), 0)
	require.NoError(t, err)

	tok, err := svc.Issue("alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	subject, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := NewService([]byte("one"), 0)
	require.NoError(t, err)
	verifier, err := NewService([]byte("two"), 0)
	require.NoError(t, err)

	tok, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	svc, err := NewService([]byte("secret"), 0)
	require.NoError(t, err)

	for _, raw := range []string{"", "garbage", "a.b.c", "!!!.###.$$$"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", raw)
	}
}

func TestVerifyEnforcesExpiry(t *testing.T) {
	svc, err := NewService([]byte("secret"), -time.Minute)
	require.NoError(t, err)

	tok, err := svc.Issue("alice")
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDefaultRoleDeriver(t *testing.T) {
	assert.Equal(t, "admin", DefaultRoleDeriver(nil, map[string]any{"role": "admin"}))
	assert.Equal(t, "user", DefaultRoleDeriver(nil, map[string]any{"role": ""}))
	assert.Equal(t, "user", DefaultRoleDeriver(nil, map[string]any{}))
}
