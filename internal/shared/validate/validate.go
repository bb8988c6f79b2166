// Package validate turns struct-tag schemas into typed validation results.
//
// Input types declare their rules with `validate:"..."` tags and provide a
// message table keyed by "<json field>.<tag>" (or "<json field>[].<tag>" for
// slice elements). Check reports only the first violated constraint.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"task_backend/internal/shared/apperr"
)

var personNamePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// Messages maps "<field>.<tag>" to the human-readable message for that rule.
type Messages map[string]string

// Messager is implemented by inputs that carry their own message table.
type Messager interface {
	ValidationMessages() Messages
}

// Schema validates structs against their tag-declared rules.
type Schema struct {
	v *validator.Validate
}

// New creates a Schema with the custom rules registered.
func New() *Schema {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})

	return &Schema{v: v}
}

// IsStrongPassword reports whether s contains a lower-case letter, an
// upper-case letter and a digit.
func IsStrongPassword(s string) bool {
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// Check validates v and returns nil or an *apperr.Error describing the first
// violated rule.
func (s *Schema) Check(v any) error {
	err := s.v.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate %T: %w", v, err)
	}

	var messages Messages
	if m, ok := v.(Messager); ok {
		messages = m.ValidationMessages()
	}
	return toAppError(verrs[0], messages)
}

func toAppError(fe validator.FieldError, messages Messages) *apperr.Error {
	field := fe.Field()
	key := field
	if base, _, ok := strings.Cut(field, "["); ok {
		field = base
		key = base + "[]"
	}

	if msg, ok := messages[key+"."+fe.Tag()]; ok {
		return apperr.Validation(field, msg)
	}
	return apperr.Validation(field, fmt.Sprintf("%s is invalid", field))
}
