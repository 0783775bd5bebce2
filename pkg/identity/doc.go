// Package identity carries the authenticated identity, role and auth outcome
// for a single request through its context. Downstream stages read it instead
// of re-deriving identity; there is no ambient shared state.
package identity
