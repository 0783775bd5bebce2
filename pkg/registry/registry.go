// Package registry filters a set of models down to the routable subset and
// derives each entity's public path segment.
package registry

import (
	"reflect"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/zazapeta/restify/pkg/restify"
)

// Entity is one routable model together with its derived routing metadata.
type Entity struct {
	// Model is the registered model value, typically a pointer to a GORM
	// struct. It is read-only for the lifetime of the process.
	Model any

	// Name is the model's type name, used for documentation tagging.
	Name string

	// Path is the lower-cased plural path segment derived from Name.
	Path string

	// Options is the model's restify configuration block.
	Options restify.Options
}

// Registry holds the routable entities in registration order.
type Registry struct {
	entities []*Entity
}

// New keeps only the models implementing restify.Restifiable, in argument
// order. Models without a restify block are excluded entirely. Two routable
// models deriving the same path segment is a configuration error.
func New(models ...any) (*Registry, error) {
	seen := map[string]string{}
	var entities []*Entity
	for _, model := range models {
		routable, ok := model.(restify.Restifiable)
		if !ok {
			continue
		}
		name := typeName(model)
		if name == "" {
			return nil, restify.Configf("cannot derive an entity name from %T", model)
		}
		path := PathFor(name)
		if prev, dup := seen[path]; dup {
			return nil, restify.Configf("path %q derived for %s collides with %s", path, name, prev)
		}
		seen[path] = name
		entities = append(entities, &Entity{
			Model:   model,
			Name:    name,
			Path:    path,
			Options: routable.Restify(),
		})
	}
	return &Registry{entities: entities}, nil
}

// Entities returns the routable entities in registration order.
func (r *Registry) Entities() []*Entity {
	return r.entities
}

// Lookup finds the entity registered for the same model type as the given
// value.
func (r *Registry) Lookup(model any) (*Entity, bool) {
	name := typeName(model)
	for _, e := range r.entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// PathFor derives the path segment for an entity name. It is a pure function:
// lower-case the name, then pluralize it.
func PathFor(name string) string {
	return inflection.Plural(strings.ToLower(name))
}

func typeName(model any) string {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
