// Package validation evaluates field-level schema rules against request
// payloads using go-playground/validator. A process-wide validator instance
// is shared; it is thread-safe and caches rule parsing.
package validation

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/zazapeta/restify/pkg/restify"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Apply validates body against the rules and returns the sanitized value.
// Fields present in the body but absent from the rules are rejected, not
// stripped. The returned value contains exactly the body's validated fields.
func Apply(rules map[string]string, body map[string]any) (map[string]any, error) {
	fields := map[string]string{}
	for name := range body {
		if _, ok := rules[name]; !ok {
			fields[name] = "is not allowed"
		}
	}
	if len(fields) > 0 {
		return nil, &restify.ValidationError{Fields: fields}
	}

	ruleSet := make(map[string]any, len(rules))
	for name, rule := range rules {
		ruleSet[name] = rule
	}
	if body == nil {
		body = map[string]any{}
	}

	for name, err := range instance().ValidateMap(body, ruleSet) {
		fields[name] = describe(err)
	}
	if len(fields) > 0 {
		return nil, &restify.ValidationError{Fields: fields}
	}

	value := make(map[string]any, len(body))
	for name, v := range body {
		value[name] = v
	}
	return value, nil
}

// describe turns a validator failure into a short human-readable message.
func describe(err any) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		if e, ok := err.(error); ok {
			return e.Error()
		}
		return "is invalid"
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			return "is required"
		case "email":
			return "must be a valid email"
		case "min":
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		case "max":
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		default:
			return fmt.Sprintf("failed the %q rule", fe.Tag())
		}
	}
	return "is invalid"
}
