// Package credentials wraps one model as the identity source. It hashes and
// verifies secrets and projects the secret field out of every serialization
// of the identity entity.
package credentials

import (
	"context"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/zazapeta/restify/pkg/store"
)

// Config tunes the key-derivation work factor. Larger iteration counts mean a
// slower offline brute force; tune so one derivation takes on the order of
// hundreds of milliseconds on deployment hardware.
type Config struct {
	Iterations int
	SaltBytes  int
	HashBytes  int
}

// DefaultConfig matches the parameters the stored records were produced with.
func DefaultConfig() Config {
	return Config{
		Iterations: 872791,
		SaltBytes:  16,
		HashBytes:  32,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Iterations <= 0 {
		c.Iterations = d.Iterations
	}
	if c.SaltBytes <= 0 {
		c.SaltBytes = d.SaltBytes
	}
	if c.HashBytes <= 0 {
		c.HashBytes = d.HashBytes
	}
	return c
}

// Hash derives a self-describing "salt$hash" record from a secret. The salt
// is regenerated on every call.
func Hash(secret string, cfg Config) (string, error) {
	cfg = cfg.withDefaults()
	salt := make([]byte, cfg.SaltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("credentials: salt generation failed: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	derived := pbkdf2.Key([]byte(secret), []byte(saltHex), cfg.Iterations, cfg.HashBytes, sha512.New)
	return saltHex + "$" + hex.EncodeToString(derived), nil
}

// Verify re-derives with the embedded salt and compares in constant time.
// Malformed records verify as false.
func Verify(candidate, derivedRecord string, cfg Config) bool {
	cfg = cfg.withDefaults()
	parts := strings.SplitN(derivedRecord, "$", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	derived := pbkdf2.Key([]byte(candidate), []byte(parts[0]), cfg.Iterations, cfg.HashBytes, sha512.New)
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(derived)), []byte(parts[1])) == 1
}

// Store binds the identity model to an entity store and to the field names
// used by the login and default-auth flows.
type Store struct {
	model         any
	entities      store.EntityStore
	identityField string
	secretField   string
	cfg           Config
}

// New builds a credential store around the identity model.
func New(model any, entities store.EntityStore, identityField, secretField string, cfg Config) (*Store, error) {
	if model == nil {
		return nil, errors.New("credentials: identity model is required")
	}
	if identityField == "" || secretField == "" {
		return nil, errors.New("credentials: identity and secret field names are required")
	}
	return &Store{
		model:         model,
		entities:      entities,
		identityField: identityField,
		secretField:   secretField,
		cfg:           cfg.withDefaults(),
	}, nil
}

// Model returns the wrapped identity model.
func (s *Store) Model() any {
	return s.model
}

// SecretField returns the configured secret attribute name.
func (s *Store) SecretField() string {
	return s.secretField
}

// Hash derives a record with this store's work factor.
func (s *Store) Hash(secret string) (string, error) {
	return Hash(secret, s.cfg)
}

// Verify checks a candidate secret against a stored record.
func (s *Store) Verify(candidate, derivedRecord string) bool {
	return Verify(candidate, derivedRecord, s.cfg)
}

// HashSecret replaces the secret field of a create payload with its derived
// record. Payloads without the field pass through untouched.
func (s *Store) HashSecret(value map[string]any) error {
	raw, ok := value[s.secretField]
	if !ok {
		return nil
	}
	secret, ok := raw.(string)
	if !ok {
		return fmt.Errorf("credentials: %s must be a string", s.secretField)
	}
	hashed, err := s.Hash(secret)
	if err != nil {
		return err
	}
	value[s.secretField] = hashed
	return nil
}

// Lookup finds the identity record whose identity field equals value and
// returns it sanitized.
func (s *Store) Lookup(ctx context.Context, value string) (map[string]any, error) {
	record, err := s.entities.FindByField(ctx, s.model, s.identityField, value)
	if err != nil {
		return nil, err
	}
	sanitized, _ := s.Sanitize(record).(map[string]any)
	return sanitized, nil
}

// Authenticate resolves an identity by its identity field and verifies the
// candidate secret. The sanitized identity is returned only on success;
// lookup failure and secret mismatch are indistinguishable to the caller.
func (s *Store) Authenticate(ctx context.Context, identityValue, secret string) (map[string]any, bool) {
	record, err := s.entities.FindByField(ctx, s.model, s.identityField, identityValue)
	if err != nil {
		return nil, false
	}
	stored, _ := toMap(record)[s.secretField].(string)
	if stored == "" || !s.Verify(secret, stored) {
		return nil, false
	}
	sanitized, _ := s.Sanitize(record).(map[string]any)
	return sanitized, true
}

// Sanitize projects the secret field out of a serialized resource. It
// accepts a single record or a slice of records and is applied uniformly at
// the serialization boundary, never via model subtyping.
func (s *Store) Sanitize(resource any) any {
	v := reflect.ValueOf(resource)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice {
		out := make([]map[string]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = s.sanitizeOne(v.Index(i).Interface())
		}
		return out
	}
	return s.sanitizeOne(resource)
}

func (s *Store) sanitizeOne(record any) map[string]any {
	m := toMap(record)
	delete(m, s.secretField)
	return m
}

func toMap(record any) map[string]any {
	raw, err := json.Marshal(record)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}
