// Package openapi emits an OpenAPI 3.0 description of the generated routes.
// The document is derived from the same registry the router mounts from, so
// it never drifts from the served surface.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/zazapeta/restify/pkg/registry"
)

// errorResponse documents the error body every generated route can produce.
type errorResponse struct {
	StatusCode int               `json:"statusCode"`
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
}

// Document builds the specification for every routable entity: five
// operations each, tagged by entity name.
func Document(reg *registry.Registry, title, version string) (*openapi3.Spec, error) {
	spec := &openapi3.Spec{
		Openapi: "3.0.3",
		Info: openapi3.Info{
			Title:   title,
			Version: version,
		},
	}

	var reflector jsonschema.Reflector

	errSchema, err := schemaFor(&reflector, errorResponse{})
	if err != nil {
		return nil, err
	}

	for _, e := range reg.Entities() {
		modelSchema, err := schemaFor(&reflector, e.Model)
		if err != nil {
			return nil, fmt.Errorf("openapi: reflect %s: %w", e.Name, err)
		}

		base := "/" + e.Path
		keyed := base + "/{id}"
		body := jsonBody(modelSchema)
		errResp := jsonResponse("Error", errSchema)

		ops := []struct {
			method  string
			pattern string
			op      openapi3.Operation
		}{
			{http.MethodPost, base, operation("create"+e.Name, e.Name, nil, body, map[string]openapi3.ResponseOrRef{
				"201": jsonResponse("Created", modelSchema),
				"400": errResp,
				"403": errResp,
			})},
			{http.MethodGet, keyed, operation("readOne"+e.Name, e.Name, keyParams(), nil, map[string]openapi3.ResponseOrRef{
				"200": jsonResponse("OK", modelSchema),
				"403": errResp,
				"404": errResp,
			})},
			{http.MethodGet, base, operation("readAll"+e.Name, e.Name, nil, nil, map[string]openapi3.ResponseOrRef{
				"200": jsonResponse("OK", arrayOf(modelSchema)),
				"403": errResp,
			})},
			{http.MethodPut, keyed, operation("update"+e.Name, e.Name, keyParams(), body, map[string]openapi3.ResponseOrRef{
				"200": jsonResponse("OK", modelSchema),
				"400": errResp,
				"403": errResp,
				"404": errResp,
			})},
			{http.MethodDelete, keyed, operation("delete"+e.Name, e.Name, keyParams(), nil, map[string]openapi3.ResponseOrRef{
				"200": jsonResponse("OK", modelSchema),
				"403": errResp,
				"404": errResp,
			})},
		}
		for _, o := range ops {
			if err := spec.AddOperation(o.method, o.pattern, o.op); err != nil {
				return nil, fmt.Errorf("openapi: add %s %s: %w", o.method, o.pattern, err)
			}
		}
	}
	return spec, nil
}

// Write serializes the document to a file as indented JSON.
func Write(spec *openapi3.Spec, path string) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("openapi: marshal: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Handler serves the document as JSON.
func Handler(spec *openapi3.Spec) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(spec)
	})
}

func schemaFor(reflector *jsonschema.Reflector, model any) (*openapi3.SchemaOrRef, error) {
	jsonSchema, err := reflector.Reflect(model, jsonschema.InlineRefs)
	if err != nil {
		return nil, err
	}
	var schemaOrRef openapi3.SchemaOrRef
	schemaOrRef.FromJSONSchema(jsonSchema.ToSchemaOrBool())
	return &schemaOrRef, nil
}

func operation(id, tag string, params []openapi3.ParameterOrRef, body *openapi3.RequestBodyOrRef, responses map[string]openapi3.ResponseOrRef) openapi3.Operation {
	return openapi3.Operation{
		ID:          &id,
		Tags:        []string{tag},
		Parameters:  params,
		RequestBody: body,
		Responses: openapi3.Responses{
			MapOfResponseOrRefValues: responses,
		},
	}
}

func keyParams() []openapi3.ParameterOrRef {
	required := true
	stringType := openapi3.SchemaTypeString
	return []openapi3.ParameterOrRef{
		{
			Parameter: &openapi3.Parameter{
				Name:     "id",
				In:       openapi3.ParameterInPath,
				Required: &required,
				Schema: &openapi3.SchemaOrRef{
					Schema: &openapi3.Schema{Type: &stringType},
				},
			},
		},
	}
}

func jsonBody(schema *openapi3.SchemaOrRef) *openapi3.RequestBodyOrRef {
	required := true
	return &openapi3.RequestBodyOrRef{
		RequestBody: &openapi3.RequestBody{
			Required: &required,
			Content: map[string]openapi3.MediaType{
				"application/json": {Schema: schema},
			},
		},
	}
}

func jsonResponse(description string, schema *openapi3.SchemaOrRef) openapi3.ResponseOrRef {
	return openapi3.ResponseOrRef{
		Response: &openapi3.Response{
			Description: description,
			Content: map[string]openapi3.MediaType{
				"application/json": {Schema: schema},
			},
		},
	}
}

func arrayOf(items *openapi3.SchemaOrRef) *openapi3.SchemaOrRef {
	arrayType := openapi3.SchemaTypeArray
	return &openapi3.SchemaOrRef{
		Schema: &openapi3.Schema{
			Type:  &arrayType,
			Items: items,
		},
	}
}
