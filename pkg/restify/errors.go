package restify

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrForbidden marks an authorization rejection. It maps to HTTP 403.
var ErrForbidden = errors.New("not allowed")

// ErrNotFound marks a missing target resource. It maps to HTTP 404.
var ErrNotFound = errors.New("not found")

// ValidationError carries field-level validation detail. It maps to HTTP 400.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return strings.Join(parts, "; ")
}

// Validationf builds a single-field ValidationError.
func Validationf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: fmt.Sprintf(format, args...)}}
}

// ConfigError marks a programming error in the routing configuration, such as
// a role-keyed query mapping with no handler for the resolved role. It is
// raised synchronously (panicked) so misconfiguration is caught at first use
// instead of being downgraded to a per-request 4xx.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return "restify: " + e.msg
}

// Configf builds a ConfigError.
func Configf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}
