package restify

import "net/http"

// Restifiable marks a model as routable. Models that do not implement it are
// excluded from route generation entirely, not merely given defaults.
type Restifiable interface {
	Restify() Options
}

// Options is the per-model routing configuration block.
type Options struct {
	// Auth maps an operation to its authorization behaviour. Absent entries
	// use the mount-wide default handler.
	Auth map[Op]Auth

	// Validate maps an operation to its payload validation. Absent entries
	// pass the request body through unchanged.
	Validate map[Op]Validator

	// Query maps an operation to its data-access handler. Absent entries use
	// the built-in entity-store defaults.
	Query map[Op]Query

	// End, when set, takes full responsibility for producing the response.
	End EndFunc
}

// Result is the outcome of an authorization handler.
type Result struct {
	Authenticated bool
	Identity      map[string]any
	Role          string
}

// AuthHandlerFunc authorizes a single request.
type AuthHandlerFunc func(r *http.Request) (Result, error)

type authKind int

const (
	authDefault authKind = iota
	authStatic
	authFunc
)

// Auth selects the authorization behaviour for one operation. The zero value
// defers to the mount-wide default handler.
type Auth struct {
	kind  authKind
	allow bool
	fn    AuthHandlerFunc
}

// Allow statically authorizes the operation with no identity or role.
func Allow() Auth {
	return Auth{kind: authStatic, allow: true}
}

// Deny statically rejects the operation.
func Deny() Auth {
	return Auth{kind: authStatic, allow: false}
}

// AuthFunc authorizes the operation with a custom handler.
func AuthFunc(fn AuthHandlerFunc) Auth {
	return Auth{kind: authFunc, fn: fn}
}

// Evaluate runs the configured behaviour, falling back to the given default
// handler when the Auth is absent. A handler error or panic downgrades to an
// unauthenticated result; it never crashes the route.
func (a Auth) Evaluate(r *http.Request, fallback AuthHandlerFunc) Result {
	switch a.kind {
	case authStatic:
		return Result{Authenticated: a.allow}
	case authFunc:
		return safeAuth(a.fn, r)
	default:
		if fallback == nil {
			return Result{}
		}
		return safeAuth(fallback, r)
	}
}

func safeAuth(fn AuthHandlerFunc, r *http.Request) (res Result) {
	defer func() {
		if recover() != nil {
			res = Result{}
		}
	}()
	out, err := fn(r)
	if err != nil {
		return Result{}
	}
	return out
}

// ValidateHandlerFunc validates a request payload and returns the sanitized
// value handed to the query stage.
type ValidateHandlerFunc func(r *http.Request) (map[string]any, error)

type validatorKind int

const (
	validatePass validatorKind = iota
	validateSchema
	validateFunc
)

// Validator selects the payload validation for one operation. The zero value
// passes the request body through unchanged.
type Validator struct {
	kind   validatorKind
	schema map[string]string
	fn     ValidateHandlerFunc
}

// Schema validates the body field-by-field against validator rule strings.
// Fields not named in the rules are rejected.
func Schema(rules map[string]string) Validator {
	return Validator{kind: validateSchema, schema: rules}
}

// ValidateFunc validates with a custom handler.
func ValidateFunc(fn ValidateHandlerFunc) Validator {
	return Validator{kind: validateFunc, fn: fn}
}

// Rules returns the configured schema rules, if any.
func (v Validator) Rules() (map[string]string, bool) {
	return v.schema, v.kind == validateSchema
}

// Func returns the configured custom handler, if any.
func (v Validator) Func() (ValidateHandlerFunc, bool) {
	return v.fn, v.kind == validateFunc
}

// IsZero reports whether the Validator is the pass-through zero value.
func (v Validator) IsZero() bool {
	return v.kind == validatePass
}

// QueryHandlerFunc performs the data access for one request. Returning a nil
// resource with a nil error means the target does not exist.
type QueryHandlerFunc func(r *http.Request, value map[string]any) (any, error)

// Query selects the data-access handler for one operation. The zero value
// uses the built-in entity-store default.
type Query struct {
	fn     QueryHandlerFunc
	byRole map[string]QueryHandlerFunc
}

// QueryFunc runs the operation with a single handler regardless of role.
func QueryFunc(fn QueryHandlerFunc) Query {
	return Query{fn: fn}
}

// QueryByRole selects the handler by the role attached to the request's
// authentication context. A resolved role with no mapped handler is a fatal
// configuration error.
func QueryByRole(handlers map[string]QueryHandlerFunc) Query {
	return Query{byRole: handlers}
}

// Func returns the single handler, if any.
func (q Query) Func() (QueryHandlerFunc, bool) {
	return q.fn, q.fn != nil
}

// ByRole returns the role-keyed handler map, if any.
func (q Query) ByRole() (map[string]QueryHandlerFunc, bool) {
	return q.byRole, q.byRole != nil
}

// IsZero reports whether the Query is the built-in-default zero value.
func (q Query) IsZero() bool {
	return q.fn == nil && q.byRole == nil
}

// Outcome is handed to an End override once the pipeline reaches a terminal
// state. Err and Resource are mutually exclusive.
type Outcome struct {
	Model      any
	Path       string
	Method     string
	Err        error
	Resource   any
	StatusCode int
}

// EndFunc overrides the default response-sending behaviour for a model. When
// set, the composer sends nothing itself.
type EndFunc func(w http.ResponseWriter, r *http.Request, o Outcome)
