package credentials

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zazapeta/restify/pkg/store"
)

// testConfig keeps the work factor low so the suite stays fast; production
// uses DefaultConfig.
var testConfig = Config{Iterations: 16, SaltBytes: 16, HashBytes: 32}

type account struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// fakeStore implements just enough of store.EntityStore for lookups.
type fakeStore struct {
	store.EntityStore
	records map[string]*account
}

func (f *fakeStore) FindByField(_ context.Context, _ any, field string, value any) (any, error) {
	if field != "email" {
		return nil, store.ErrNotFound
	}
	rec, ok := f.records[value.(string)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func TestHashFormatAndFreshSalt(t *testing.T) {
	h1, err := Hash("hunter2", testConfig)
	require.NoError(t, err)
	h2, err := Hash("hunter2", testConfig)
	require.NoError(t, err)

	parts := strings.SplitN(h1, "$", 2)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 32) // 16 salt bytes, hex encoded
	assert.Len(t, parts[1], 64) // 32 hash bytes, hex encoded

	// Salt is regenerated per call, so identical secrets derive differently.
	assert.NotEqual(t, h1, h2)
}

func TestVerify(t *testing.T) {
	h, err := Hash("hunter2", testConfig)
	require.NoError(t, err)

	assert.True(t, Verify("hunter2", h, testConfig))
	assert.False(t, Verify("wrong", h, testConfig))
	assert.False(t, Verify("hunter2", "malformed", testConfig))
	assert.False(t, Verify("hunter2", "$", testConfig))
	assert.False(t, Verify("hunter2", "", testConfig))
}

func newTestStore(t *testing.T, records map[string]*account) *Store {
	t.Helper()
	s, err := New(&account{}, &fakeStore{records: records}, "email", "password", testConfig)
	require.NoError(t, err)
	return s
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, nil, "email", "password", testConfig)
	assert.Error(t, err)

	_, err = New(&account{}, nil, "", "password", testConfig)
	assert.Error(t, err)
}

func TestHashSecretReplacesField(t *testing.T) {
	s := newTestStore(t, nil)

	value := map[string]any{"email": "a@b.c", "password": "hunter2"}
	require.NoError(t, s.HashSecret(value))
	stored, ok := value["password"].(string)
	require.True(t, ok)
	assert.NotEqual(t, "hunter2", stored)
	assert.True(t, s.Verify("hunter2", stored))

	// Absent secret field passes through.
	noSecret := map[string]any{"email": "a@b.c"}
	require.NoError(t, s.HashSecret(noSecret))
	assert.NotContains(t, noSecret, "password")

	// Non-string secret is rejected.
	bad := map[string]any{"password": 42}
	assert.Error(t, s.HashSecret(bad))
}

func TestAuthenticate(t *testing.T) {
	hashed, err := Hash("hunter2", testConfig)
	require.NoError(t, err)
	s := newTestStore(t, map[string]*account{
		"alice@example.com": {ID: 1, Email: "alice@example.com", Password: hashed, Role: "admin"},
	})

	ident, ok := s.Authenticate(context.Background(), "alice@example.com", "hunter2")
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", ident["email"])
	assert.NotContains(t, ident, "password")

	_, ok = s.Authenticate(context.Background(), "alice@example.com", "wrong")
	assert.False(t, ok)

	_, ok = s.Authenticate(context.Background(), "nobody@example.com", "hunter2")
	assert.False(t, ok)
}

func TestLookupSanitizes(t *testing.T) {
	hashed, err := Hash("hunter2", testConfig)
	require.NoError(t, err)
	s := newTestStore(t, map[string]*account{
		"alice@example.com": {ID: 1, Email: "alice@example.com", Password: hashed},
	})

	ident, err := s.Lookup(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotContains(t, ident, "password")
	assert.Equal(t, "alice@example.com", ident["email"])

	_, err = s.Lookup(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSanitizeSlice(t *testing.T) {
	s := newTestStore(t, nil)

	records := []account{
		{ID: 1, Email: "a@example.com", Password: "secret-a"},
		{ID: 2, Email: "b@example.com", Password: "secret-b"},
	}
	out, ok := s.Sanitize(records).([]map[string]any)
	require.True(t, ok)
	require.Len(t, out, 2)
	for _, m := range out {
		assert.NotContains(t, m, "password")
		assert.Contains(t, m, "email")
	}
}
