package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenIssue         = errors.New("could not create token")
	ErrMisconfigured      = errors.New("config invalid")
	ErrGenerationDisabled = errors.New("generation disabled")
)

// ValidationError maps a field name to its violations.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// errOrNil keeps a nil *ValidationError from becoming a non-nil error.
func (e *ValidationError) errOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// GenerationError reports a failed auto-creation. Raw is whatever the
// generation endpoint answered with, possibly nothing.
type GenerationError struct {
	Kind string
	Raw  []byte
	Err  error
}

func (e *GenerationError) Error() string {
	return "generate " + e.Kind + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
