package service

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
)

// FieldErrors collects validation failures keyed by field name so a single
// response can report every invalid field at once.
type FieldErrors struct {
	Fields map[string][]string
}

func NewFieldErrors() *FieldErrors {
	return &FieldErrors{Fields: make(map[string][]string)}
}

func (e *FieldErrors) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *FieldErrors) Empty() bool { return len(e.Fields) == 0 }

func (e *FieldErrors) Error() string { return "validation failed" }

func (e *FieldErrors) Unwrap() error { return ErrValidation }
