package gorm

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/zazapeta/restify/pkg/store"
)

type Note struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "store_test.db")
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: dbPath}, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Note{}))
	return db
}

func TestCreateAndFindByKey(t *testing.T) {
	ctx := context.Background()
	es := NewEntityStore(openTestDB(t))

	created, err := es.Create(ctx, &Note{}, map[string]any{"title": "hello", "body": "world"})
	require.NoError(t, err)
	note, ok := created.(*Note)
	require.True(t, ok)
	assert.NotZero(t, note.ID)
	assert.Equal(t, "hello", note.Title)

	found, err := es.FindByKey(ctx, &Note{}, "1")
	require.NoError(t, err)
	assert.Equal(t, "hello", found.(*Note).Title)
}

func TestFindByKeyNotFound(t *testing.T) {
	ctx := context.Background()
	es := NewEntityStore(openTestDB(t))

	_, err := es.FindByKey(ctx, &Note{}, "999")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindAll(t *testing.T) {
	ctx := context.Background()
	es := NewEntityStore(openTestDB(t))

	for _, title := range []string{"a", "b", "c"} {
		_, err := es.Create(ctx, &Note{}, map[string]any{"title": title})
		require.NoError(t, err)
	}

	all, err := es.FindAll(ctx, &Note{})
	require.NoError(t, err)
	notes, ok := all.([]Note)
	require.True(t, ok)
	assert.Len(t, notes, 3)
}

func TestFindByField(t *testing.T) {
	ctx := context.Background()
	es := NewEntityStore(openTestDB(t))

	_, err := es.Create(ctx, &Note{}, map[string]any{"title": "unique", "body": "x"})
	require.NoError(t, err)

	found, err := es.FindByField(ctx, &Note{}, "title", "unique")
	require.NoError(t, err)
	assert.Equal(t, "x", found.(*Note).Body)

	_, err = es.FindByField(ctx, &Note{}, "title", "absent")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	es := NewEntityStore(openTestDB(t))

	created, err := es.Create(ctx, &Note{}, map[string]any{"title": "before", "body": "keep"})
	require.NoError(t, err)
	id := created.(*Note).ID

	updated, err := es.Update(ctx, &Note{}, "1", map[string]any{"title": "after"})
	require.NoError(t, err)
	note := updated.(*Note)
	assert.Equal(t, id, note.ID)
	assert.Equal(t, "after", note.Title)
	assert.Equal(t, "keep", note.Body)
}

func TestUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	es := NewEntityStore(openTestDB(t))

	_, err := es.Update(ctx, &Note{}, "42", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteReturnsLastKnownState(t *testing.T) {
	ctx := context.Background()
	es := NewEntityStore(openTestDB(t))

	_, err := es.Create(ctx, &Note{}, map[string]any{"title": "doomed"})
	require.NoError(t, err)

	deleted, err := es.Delete(ctx, &Note{}, "1")
	require.NoError(t, err)
	assert.Equal(t, "doomed", deleted.(*Note).Title)

	_, err = es.FindByKey(ctx, &Note{}, "1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = es.Delete(ctx, &Note{}, "1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// Store failures other than "not found" must surface as plain errors, not be
// mistaken for missing records.
func TestUpstreamFailureIsNotNotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(assert.AnError)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{})
	require.NoError(t, err)

	es := NewEntityStore(db)
	_, err = es.FindByKey(context.Background(), &Note{}, "1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}
