// Package errors provides domain-specific error types for cibuild.
//
// Sentinels identify the failure kind and are what callers match with
// errors.Is.  The structured types carry the capability, method, and
// delegate involved so that a failed Build can be diagnosed without
// re-running it.
package errors

import (
	"errors"
	"fmt"
	"reflect"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrDuplicateMethodName  = errors.New("duplicate synthesized method name")
	ErrMissingCapability    = errors.New("missing capability")
	ErrTypeMismatch         = errors.New("delegate does not implement capability")
	ErrNotCapability        = errors.New("not a capability interface")
	ErrDuplicateCapability  = errors.New("capability bound more than once")
	ErrUnexpectedCapability = errors.New("capability not part of composite shape")
	ErrUnknownMethod        = errors.New("unknown synthesized method")
	ErrArgumentMismatch     = errors.New("arguments do not match method signature")
	ErrInvalidConfig        = errors.New("invalid configuration")
)

// ── Structured error types ───────────────────────────────────────────

// ShapeError reports two capabilities that synthesize the same method
// name.  It always unwraps to ErrDuplicateMethodName.
type ShapeError struct {
	Method string // the colliding synthesized name
	First  string // capability that claimed the name first
	Second string // capability that collided with it
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%v: %s (from %s and %s)",
		ErrDuplicateMethodName, e.Method, e.First, e.Second)
}

func (e *ShapeError) Unwrap() error { return ErrDuplicateMethodName }

// BindingError represents a failure to bind a delegate to a slot.
type BindingError struct {
	Op         string       // "introspect", "bind", "invoke"
	Capability reflect.Type // capability involved (nil if unknown)
	Delegate   reflect.Type // dynamic type of the delegate (nil if none)
	Err        error        // sentinel describing the failure
}

func (e *BindingError) Error() string {
	s := e.Op
	if e.Capability != nil {
		s += " " + e.Capability.String()
	}
	s += ": " + e.Err.Error()
	if e.Delegate != nil {
		s += fmt.Sprintf(" (got %s)", e.Delegate)
	}
	return s
}

func (e *BindingError) Unwrap() error { return e.Err }

// CallError reports a lookup or argument failure when invoking a stub
// by name.  Failures raised by the delegate itself are never wrapped
// in a CallError.
type CallError struct {
	Method string
	Err    error
	Detail string
}

func (e *CallError) Error() string {
	s := fmt.Sprintf("call %s: %v", e.Method, e.Err)
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

func (e *CallError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// ── Constructors ─────────────────────────────────────────────────────

// Bind creates a BindingError for op on capability c.  A nil delegate
// is reported without a dynamic type.
func Bind(op string, c reflect.Type, delegate interface{}, err error) *BindingError {
	return &BindingError{
		Op:         op,
		Capability: c,
		Delegate:   reflect.TypeOf(delegate),
		Err:        err,
	}
}

// Call creates a CallError for the named stub.
func Call(method string, err error, format string, args ...interface{}) *CallError {
	return &CallError{Method: method, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// ── Classification helpers ───────────────────────────────────────────

// IsBuildFailure reports whether err is one of the failure kinds a
// Build call can raise.  Callers use it to decide whether retrying
// with a corrected binding makes sense.
func IsBuildFailure(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{
		ErrDuplicateMethodName, ErrMissingCapability, ErrTypeMismatch,
		ErrNotCapability, ErrDuplicateCapability, ErrUnexpectedCapability,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use cibuild/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
