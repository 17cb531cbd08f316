// Package validation contains the logic for validating request data.
//
// Rules are declared per field as a list of validator tags paired with the
// message reported when the tag fails. The `validator` library evaluates
// each tag; failures are collected into field errors the client can
// understand. Nested objects reuse the same structure with a prefixed name.
package validation

import (
	"github.com/deppfellow/user-api/internal/config"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validatable is implemented by request payload types that know how to
// validate themselves.
type Validatable interface {
	Validate(v *Validator) error
}

// Rule pairs a validator tag (e.g. "notblank", "max=50") with the message
// reported when it fails. An empty Message falls back to a generic message
// derived from the tag.
type Rule struct {
	Tag     string
	Message string
}

// Field binds a value to the rules checked against it. Name is the
// client-facing field path, e.g. "contactInfo.mobileNumber".
type Field struct {
	Name  string
	Value any
	Rules []Rule
}

// Nested prefixes the names of fields belonging to a nested object.
func Nested(prefix string, fields ...Field) []Field {
	nested := make([]Field, len(fields))
	for i, f := range fields {
		f.Name = prefix + "." + f.Name
		nested[i] = f
	}
	return nested
}

// Validator evaluates rule lists. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	limits   config.ValidationConfig
}

// New creates a Validator with the custom tags used by request payloads
// registered.
func New(limits config.ValidationConfig) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// notblank rejects empty and whitespace-only strings.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	return &Validator{validate: v, limits: limits}
}

// Limits returns the configured payload limits.
func (v *Validator) Limits() config.ValidationConfig {
	return v.limits
}

// Check evaluates every rule of every field in a single pass. All failing
// rules are reported, not only the first one per field. It returns nil when
// everything passes, otherwise CustomValidationErrors.
func (v *Validator) Check(fields ...Field) error {
	var failures CustomValidationErrors

	for _, field := range fields {
		for _, rule := range field.Rules {
			err := v.validate.Var(field.Value, rule.Tag)
			if err == nil {
				continue
			}

			message := rule.Message
			if message == "" {
				message = messageFor(field.Name, err)
			}

			failures = append(failures, CustomValidationError{
				Field:   field.Name,
				Message: message,
			})
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return failures
}
