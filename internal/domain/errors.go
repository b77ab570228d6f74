package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid funnel transition")
	ErrStepInvalid       = errors.New("assessment step incomplete")
	ErrInvalidField      = errors.New("invalid profile field")
	ErrAuditAborted      = errors.New("audit call aborted")
	ErrResultsLocked     = errors.New("results not available yet")
)

// FieldError reporta un campo desconocido o un valor fuera de catalogo.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value %q for field %q", e.Value, e.Field)
}

func (e *FieldError) Unwrap() error { return ErrInvalidField }

// ContactValidationError agrupa los mensajes por campo del formulario de contacto.
type ContactValidationError struct {
	Fields map[string]string
}

func (e *ContactValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid contact info (" + strings.Join(parts, "; ") + ")"
}
