package openapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zazapeta/restify/pkg/registry"
	"github.com/zazapeta/restify/pkg/restify"
)

type Widget struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (Widget) Restify() restify.Options {
	return restify.Options{}
}

func newSpec(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(&Widget{})
	require.NoError(t, err)
	return reg
}

func TestDocumentCoversEveryOperation(t *testing.T) {
	spec, err := Document(newSpec(t), "widget API", "2.0.0")
	require.NoError(t, err)

	assert.Equal(t, "widget API", spec.Info.Title)
	assert.Equal(t, "2.0.0", spec.Info.Version)

	base, ok := spec.Paths.MapOfPathItemValues["/widgets"]
	require.True(t, ok)
	assert.Contains(t, base.MapOfOperationValues, "post")
	assert.Contains(t, base.MapOfOperationValues, "get")

	keyed, ok := spec.Paths.MapOfPathItemValues["/widgets/{id}"]
	require.True(t, ok)
	assert.Contains(t, keyed.MapOfOperationValues, "get")
	assert.Contains(t, keyed.MapOfOperationValues, "put")
	assert.Contains(t, keyed.MapOfOperationValues, "delete")

	basePost := base.MapOfOperationValues["post"]
	require.NotNil(t, basePost.ID)
	assert.Equal(t, "createWidget", *basePost.ID)
	assert.Equal(t, []string{"Widget"}, basePost.Tags)
}

func TestWriteEmitsParseableJSON(t *testing.T) {
	spec, err := Document(newSpec(t), "widget API", "2.0.0")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "openapi.json")
	require.NoError(t, Write(spec, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
}

func TestHandlerServesDocument(t *testing.T) {
	spec, err := Document(newSpec(t), "widget API", "2.0.0")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	Handler(spec).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc, "paths")
}
