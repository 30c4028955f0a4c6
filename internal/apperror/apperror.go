package apperror

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error is a domain error that knows the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
	class   bool
}

// New creates an Error. Errors created with New match the class sentinel of the same status
// under errors.Is, so booking.ErrDuplicate satisfies errors.Is(err, ErrConflict).
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func newClass(status int, message string) *Error {
	return &Error{Status: status, Message: message, class: true}
}

var (
	ErrNotFound        = newClass(http.StatusNotFound, "not found")
	ErrConflict        = newClass(http.StatusConflict, "conflict")
	ErrUnauthenticated = newClass(http.StatusUnauthorized, "authentication required")
)

func (e *Error) Error() string {
	return e.Message
}

// Is reports class membership: any Error matches a class sentinel with the same status.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t == e {
		return true
	}
	return t.class && t.Status == e.Status
}

// NonFieldErrors is the key under which whole-object errors are reported.
const NonFieldErrors = "__all__"

// ValidationError collects per-field messages so every problem can be reported at once.
type ValidationError struct {
	Fields map[string][]string `json:"errors"`
}

// NewValidationError returns an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add attaches msg to field.
func (v *ValidationError) Add(field, msg string) {
	if v.Fields == nil {
		v.Fields = make(map[string][]string)
	}
	v.Fields[field] = append(v.Fields[field], msg)
}

// AddNonField attaches msg to the object as a whole.
func (v *ValidationError) AddNonField(msg string) {
	v.Add(NonFieldErrors, msg)
}

// Has reports whether field has at least one message.
func (v *ValidationError) Has(field string) bool {
	return len(v.Fields[field]) > 0
}

// Empty reports whether no messages were collected.
func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

// Merge copies the messages of other into v. Fields that already carry a message in v are
// skipped, so input-boundary errors win over business-rule errors for the same field;
// non-field messages are always appended.
func (v *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for field, msgs := range other.Fields {
		if field != NonFieldErrors && v.Has(field) {
			continue
		}
		for _, msg := range msgs {
			v.Add(field, msg)
		}
	}
}

// Err returns v as an error, or nil when nothing was collected.
func (v *ValidationError) Err() error {
	if v == nil || v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(v.Fields[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
