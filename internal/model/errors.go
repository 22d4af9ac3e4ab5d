package model

import (
	"fmt"
	"strings"
)

// ValidationError represents bad user input on one field
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}

// WithField returns a copy of the error reported against another field name
func (e *ValidationError) WithField(field string) *ValidationError {
	c := *e
	c.Field = field
	return &c
}

// IncompleteInvoiceError lists the required invoice components that are missing
type IncompleteInvoiceError struct {
	Missing []string
}

func (e *IncompleteInvoiceError) Error() string {
	return fmt.Sprintf("incomplete invoice: missing %s", strings.Join(e.Missing, ", "))
}

// NewIncompleteInvoiceError creates a new incomplete invoice error
func NewIncompleteInvoiceError(missing ...string) *IncompleteInvoiceError {
	return &IncompleteInvoiceError{Missing: missing}
}

// MissingTranslationError is a configuration defect: a label has no text for the language
type MissingTranslationError struct {
	Language Language
	Key      string
}

func (e *MissingTranslationError) Error() string {
	return fmt.Sprintf("missing translation for %q in language %q", e.Key, e.Language)
}

// NewMissingTranslationError creates a new missing translation error
func NewMissingTranslationError(lang Language, key string) *MissingTranslationError {
	return &MissingTranslationError{
		Language: lang,
		Key:      key,
	}
}

// PersistenceError represents a failed audit log write. It never invalidates
// a document that was already produced.
type PersistenceError struct {
	Op     string
	Target string
	Cause  error
}

func (e *PersistenceError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("persistence failed [%s %s]: %v", e.Op, e.Target, e.Cause)
	}
	return fmt.Sprintf("persistence failed [%s]: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(op, target string, cause error) *PersistenceError {
	return &PersistenceError{
		Op:     op,
		Target: target,
		Cause:  cause,
	}
}
