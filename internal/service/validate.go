package service

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/challenge-hub/backend/internal/model"
)

const (
	maxStringLength   = 255
	minPasswordLength = 6
	// bcrypt refuses longer input.
	maxPasswordBytes = 72
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func formatValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

func isEmail(value string) bool {
	return formatValidator().Var(value, "email") == nil
}

func isURL(value string) bool {
	return formatValidator().Var(value, "url") == nil
}

func validateType(createType string) error {
	verr := &ValidationError{}
	switch createType {
	case model.CreateTypeManual, model.CreateTypeAuto:
	case "":
		verr.add("type", "The type field is required.")
	default:
		verr.add("type", "The selected type is invalid.")
	}
	return verr.errOrNil()
}

// required flags a missing or blank value. It reports whether the value is usable.
func (e *ValidationError) required(field string, value *string) bool {
	if value == nil || strings.TrimSpace(*value) == "" {
		e.add(field, fmt.Sprintf("The %s field is required.", field))
		return false
	}
	return true
}

func (e *ValidationError) maxLength(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		e.add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, max))
	}
}

func (e *ValidationError) minLength(field, value string, min int) {
	if utf8.RuneCountInString(value) < min {
		e.add(field, fmt.Sprintf("The %s must be at least %d characters.", field, min))
	}
}

func (e *ValidationError) maxBytes(field, value string, max int) {
	if len(value) > max {
		e.add(field, fmt.Sprintf("The %s may not be greater than %d bytes.", field, max))
	}
}

// password applies the length rules shared by every password write.
func (e *ValidationError) password(value string) {
	e.minLength("password", value, minPasswordLength)
	e.maxBytes("password", value, maxPasswordBytes)
}

func (e *ValidationError) email(field, value string) {
	if !isEmail(value) {
		e.add(field, fmt.Sprintf("The %s must be a valid email address.", field))
	}
}

func (e *ValidationError) url(field, value string) {
	if !isURL(value) {
		e.add(field, fmt.Sprintf("The %s format is invalid.", field))
	}
}

func (e *ValidationError) taken(field string) {
	e.add(field, fmt.Sprintf("The %s has already been taken.", field))
}

// A nil field of a patch is skipped; a present one must satisfy the create rules.
func (e *ValidationError) optional(field string, value *string, check func(string)) {
	if value == nil {
		return
	}
	if e.required(field, value) && check != nil {
		check(*value)
	}
}
