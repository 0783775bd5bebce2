// Package gorm implements store.EntityStore on top of a *gorm.DB.
package gorm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/zazapeta/restify/pkg/store"
)

// Ensure EntityStore implements store.EntityStore
var _ store.EntityStore = (*EntityStore)(nil)

// EntityStore implements store.EntityStore using GORM.
type EntityStore struct {
	db     *gorm.DB
	naming schema.Namer
}

// NewEntityStore creates a new EntityStore.
func NewEntityStore(db *gorm.DB) *EntityStore {
	return &EntityStore{db: db, naming: schema.NamingStrategy{}}
}

// DB exposes the underlying handle for migration and seeding glue.
func (s *EntityStore) DB() *gorm.DB {
	return s.db
}

func (s *EntityStore) Create(ctx context.Context, model any, value map[string]any) (any, error) {
	record := newRecord(model)
	if err := decodeValue(value, record); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("create %T: %w", model, err)
	}
	return record, nil
}

func (s *EntityStore) FindByKey(ctx context.Context, model any, key string) (any, error) {
	record := newRecord(model)
	tx := s.db.WithContext(ctx).First(record, "id = ?", key)
	if err := translateNotFound(tx.Error, model); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *EntityStore) FindAll(ctx context.Context, model any) (any, error) {
	slicePtr := newSlice(model)
	if err := s.db.WithContext(ctx).Find(slicePtr).Error; err != nil {
		return nil, fmt.Errorf("find all %T: %w", model, err)
	}
	return reflect.ValueOf(slicePtr).Elem().Interface(), nil
}

func (s *EntityStore) FindByField(ctx context.Context, model any, field string, value any) (any, error) {
	record := newRecord(model)
	column := s.naming.ColumnName("", field)
	tx := s.db.WithContext(ctx).First(record, fmt.Sprintf("%s = ?", column), value)
	if err := translateNotFound(tx.Error, model); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *EntityStore) Update(ctx context.Context, model any, key string, value map[string]any) (any, error) {
	record := newRecord(model)
	tx := s.db.WithContext(ctx).First(record, "id = ?", key)
	if err := translateNotFound(tx.Error, model); err != nil {
		return nil, err
	}
	if len(value) > 0 {
		updates := make(map[string]any, len(value))
		for field, v := range value {
			updates[s.naming.ColumnName("", field)] = v
		}
		if err := s.db.WithContext(ctx).Model(record).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update %T: %w", model, err)
		}
		// Reload so generated columns and timestamps reflect the stored row.
		if err := s.db.WithContext(ctx).First(record, "id = ?", key).Error; err != nil {
			return nil, fmt.Errorf("reload %T: %w", model, err)
		}
	}
	return record, nil
}

func (s *EntityStore) Delete(ctx context.Context, model any, key string) (any, error) {
	record := newRecord(model)
	tx := s.db.WithContext(ctx).First(record, "id = ?", key)
	if err := translateNotFound(tx.Error, model); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Delete(record).Error; err != nil {
		return nil, fmt.Errorf("delete %T: %w", model, err)
	}
	return record, nil
}

func translateNotFound(err error, model any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return fmt.Errorf("find %T: %w", model, err)
}

// newRecord returns a fresh pointer to the model's struct type.
func newRecord(model any) any {
	return reflect.New(structType(model)).Interface()
}

// newSlice returns a pointer to an empty slice of the model's struct type.
func newSlice(model any) any {
	return reflect.New(reflect.SliceOf(structType(model))).Interface()
}

func structType(model any) reflect.Type {
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// decodeValue maps a validated payload onto a record via its JSON field
// names, the same names the generated routes serialize with.
func decodeValue(value map[string]any, record any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value: %w", err)
	}
	if err := json.Unmarshal(raw, record); err != nil {
		return fmt.Errorf("decode value into %T: %w", record, err)
	}
	return nil
}
