package identity

import "context"

type contextKey struct{}

// Context is the per-request authentication context. It is created fresh by
// the authorize stage and is readable by the validation and query stages of
// the same request. It is never shared between requests.
type Context struct {
	// Identity is the resolved identity record, already stripped of its
	// secret field. Nil for statically authorized requests.
	Identity map[string]any

	// Role is the derived role tag, used to select handlers from role-keyed
	// query mappings.
	Role string

	// Authenticated reports whether the authorize stage passed.
	Authenticated bool
}

// Key returns a field of the identity record, or nil when no identity is
// attached.
func (c *Context) Key(field string) any {
	if c == nil || c.Identity == nil {
		return nil
	}
	return c.Identity[field]
}

// Get retrieves the authentication context from a request context.
func Get(ctx context.Context) (*Context, bool) {
	id, ok := ctx.Value(contextKey{}).(*Context)
	return id, ok
}

// Set stores the authentication context in a request context.
func Set(ctx context.Context, id *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}
