package routes

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gorilla/mux"

	"github.com/zazapeta/restify/pkg/credentials"
	"github.com/zazapeta/restify/pkg/identity"
	"github.com/zazapeta/restify/pkg/registry"
	"github.com/zazapeta/restify/pkg/restify"
	"github.com/zazapeta/restify/pkg/store"
	"github.com/zazapeta/restify/pkg/validation"
)

// pipeline is one compiled (entity, operation) route handler. Variant
// resolution happens once at mount time; per request only the resolved
// stages run.
type pipeline struct {
	entity *registry.Entity
	op     restify.Op

	auth        restify.Auth
	defaultAuth restify.AuthHandlerFunc
	validate    restify.ValidateHandlerFunc
	query       restify.QueryHandlerFunc
	byRole      map[string]restify.QueryHandlerFunc
	end         restify.EndFunc

	// creds is set when the entity is the identity model: its create payloads
	// get their secret hashed and its responses get the secret projected out.
	creds *credentials.Store
}

func (m *mounter) compile(e *registry.Entity, op restify.Op) *pipeline {
	p := &pipeline{
		entity:      e,
		op:          op,
		auth:        e.Options.Auth[op],
		defaultAuth: m.defaultAuth,
		end:         e.Options.End,
	}

	p.validate = m.resolveValidator(e.Options.Validate[op], op)

	q := e.Options.Query[op]
	if byRole, ok := q.ByRole(); ok {
		p.byRole = byRole
	} else if fn, ok := q.Func(); ok {
		p.query = fn
	} else {
		p.query = m.defaultQuery(e, op)
	}

	if m.creds != nil && sameModel(e.Model, m.creds.Model()) {
		p.creds = m.creds
	}
	return p
}

// resolveValidator picks the validation stage for one operation. Schema rules
// decode and check the body; a custom handler runs as-is; the pass-through
// zero value decodes the body for write operations and skips it for reads.
func (m *mounter) resolveValidator(v restify.Validator, op restify.Op) restify.ValidateHandlerFunc {
	if rules, ok := v.Rules(); ok {
		return func(r *http.Request) (map[string]any, error) {
			body, err := decodeBody(r)
			if err != nil {
				return nil, err
			}
			return validation.Apply(rules, body)
		}
	}
	if fn, ok := v.Func(); ok {
		return fn
	}
	if op == restify.Create || op == restify.Update {
		return decodeBody
	}
	return func(*http.Request) (map[string]any, error) {
		return nil, nil
	}
}

// defaultQuery is the built-in entity-store data access for one operation.
func (m *mounter) defaultQuery(e *registry.Entity, op restify.Op) restify.QueryHandlerFunc {
	switch op {
	case restify.Create:
		return func(r *http.Request, value map[string]any) (any, error) {
			return m.store.Create(r.Context(), e.Model, value)
		}
	case restify.ReadOne:
		return func(r *http.Request, _ map[string]any) (any, error) {
			return m.store.FindByKey(r.Context(), e.Model, mux.Vars(r)["id"])
		}
	case restify.ReadAll:
		return func(r *http.Request, _ map[string]any) (any, error) {
			return m.store.FindAll(r.Context(), e.Model)
		}
	case restify.Update:
		return func(r *http.Request, value map[string]any) (any, error) {
			return m.store.Update(r.Context(), e.Model, mux.Vars(r)["id"], value)
		}
	default:
		return func(r *http.Request, _ map[string]any) (any, error) {
			return m.store.Delete(r.Context(), e.Model, mux.Vars(r)["id"])
		}
	}
}

func (p *pipeline) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	result := p.auth.Evaluate(r, p.defaultAuth)
	if !result.Authenticated {
		p.fail(w, r, http.StatusForbidden, restify.ErrForbidden)
		return
	}
	r = r.WithContext(identity.Set(r.Context(), &identity.Context{
		Identity:      result.Identity,
		Role:          result.Role,
		Authenticated: true,
	}))

	value, err := p.validate(r)
	if err != nil {
		var verr *restify.ValidationError
		if !errors.As(err, &verr) {
			verr = &restify.ValidationError{}
		}
		p.fail(w, r, http.StatusBadRequest, verr)
		return
	}

	if p.creds != nil && p.op == restify.Create {
		if err := p.creds.HashSecret(value); err != nil {
			p.fail(w, r, http.StatusInternalServerError, err)
			return
		}
	}

	query := p.query
	if p.byRole != nil {
		fn, ok := p.byRole[result.Role]
		if !ok {
			// A resolved role with no mapped handler is a programming error,
			// not a client error. Fail loudly.
			panic(restify.Configf("no %s query handler mapped for role %q on %s",
				p.op, result.Role, p.entity.Name))
		}
		query = fn
	}

	resource, err := query(r, value)
	switch {
	case errors.Is(err, store.ErrNotFound) || errors.Is(err, restify.ErrNotFound):
		p.fail(w, r, http.StatusNotFound, restify.ErrNotFound)
		return
	case err != nil:
		p.fail(w, r, http.StatusInternalServerError, err)
		return
	case isNil(resource):
		p.fail(w, r, http.StatusNotFound, restify.ErrNotFound)
		return
	}

	if p.creds != nil {
		resource = p.creds.Sanitize(resource)
	}
	resource = normalizeSlice(resource)

	status := http.StatusOK
	if p.op == restify.Create {
		status = http.StatusCreated
	}
	if p.end != nil {
		p.end(w, r, restify.Outcome{
			Model:      p.entity.Model,
			Path:       p.entity.Path,
			Method:     r.Method,
			Resource:   resource,
			StatusCode: status,
		})
		return
	}
	writeJSON(w, status, resource)
}

// fail routes a terminal error through the End override when one is set, or
// writes the standard error body. Internal errors never leak their message.
func (p *pipeline) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if p.end != nil {
		p.end(w, r, restify.Outcome{
			Model:      p.entity.Model,
			Path:       p.entity.Path,
			Method:     r.Method,
			Err:        err,
			StatusCode: status,
		})
		return
	}
	message := err.Error()
	var details map[string]string
	var verr *restify.ValidationError
	if errors.As(err, &verr) {
		details = verr.Fields
	}
	if status == http.StatusInternalServerError {
		message = "an internal error occurred"
	}
	writeError(w, status, message, details)
}

// normalizeSlice replaces a typed nil slice with an empty one so a handler
// returning `[]Post(nil)` lists as `[]`, not `null`.
func normalizeSlice(resource any) any {
	v := reflect.ValueOf(resource)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return resource
}

func isNil(resource any) bool {
	if resource == nil {
		return true
	}
	v := reflect.ValueOf(resource)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func sameModel(a, b any) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	for ta != nil && ta.Kind() == reflect.Ptr {
		ta = ta.Elem()
	}
	for tb != nil && tb.Kind() == reflect.Ptr {
		tb = tb.Elem()
	}
	return ta != nil && ta == tb
}
