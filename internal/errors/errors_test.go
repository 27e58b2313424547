package errors

import (
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringer interface{ String() string }

func TestShapeError_Format(t *testing.T) {
	err := &ShapeError{Method: "Greeter_Greet", First: "a.Greeter", Second: "b.Greeter"}
	want := "duplicate synthesized method name: Greeter_Greet (from a.Greeter and b.Greeter)"
	assert.Equal(t, want, err.Error())
	assert.True(t, Is(err, ErrDuplicateMethodName))
}

func TestBindingError_Format(t *testing.T) {
	capType := reflect.TypeOf((*stringer)(nil)).Elem()
	tests := []struct {
		name string
		err  *BindingError
		want string
	}{
		{
			name: "with delegate",
			err:  Bind("bind", capType, 42, ErrTypeMismatch),
			want: "bind errors.stringer: delegate does not implement capability (got int)",
		},
		{
			name: "nil delegate",
			err:  Bind("bind", capType, nil, ErrMissingCapability),
			want: "bind errors.stringer: missing capability",
		},
		{
			name: "no capability",
			err:  &BindingError{Op: "introspect", Err: ErrNotCapability},
			want: "introspect: not a capability interface",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestBindingError_Unwrap(t *testing.T) {
	err := Bind("bind", nil, "x", ErrTypeMismatch)
	assert.True(t, Is(err, ErrTypeMismatch))
	assert.False(t, Is(err, ErrMissingCapability))

	var be *BindingError
	require.True(t, As(fmt.Errorf("build: %w", err), &be))
	assert.Equal(t, "bind", be.Op)
}

func TestCallError_Format(t *testing.T) {
	err := Call("Greeter_Greet", ErrArgumentMismatch, "want %d arguments, got %d", 1, 0)
	assert.Equal(t, "call Greeter_Greet: arguments do not match method signature: want 1 arguments, got 0", err.Error())
	assert.True(t, Is(err, ErrArgumentMismatch))
}

func TestConfigError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  ConfigError
		want string
	}{
		{
			name: "with value and hint",
			err: ConfigError{
				Field:   "cache-size",
				Value:   -1,
				Message: "must not be negative",
				Hint:    "use 0 to disable the type cache",
			},
			want: "config: --cache-size=-1: must not be negative\n  hint: use 0 to disable the type cache",
		},
		{
			name: "missing value no hint",
			err: ConfigError{
				Field:   "format",
				Message: "required",
			},
			want: "config: --format: required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, Is(&tt.err, ErrInvalidConfig))
		})
	}
}

func TestIsBuildFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"shape", &ShapeError{Method: "A_B"}, true},
		{"missing", Bind("bind", nil, nil, ErrMissingCapability), true},
		{"wrapped mismatch", fmt.Errorf("build: %w", ErrTypeMismatch), true},
		{"unknown method", ErrUnknownMethod, false},
		{"delegate failure", io.EOF, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBuildFailure(tt.err))
		})
	}
}

func TestSentinels(t *testing.T) {
	// Verify sentinel errors are distinct.
	sentinels := []error{
		ErrDuplicateMethodName, ErrMissingCapability, ErrTypeMismatch,
		ErrNotCapability, ErrDuplicateCapability, ErrUnexpectedCapability,
		ErrUnknownMethod, ErrArgumentMismatch, ErrInvalidConfig,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && Is(a, b) {
				t.Errorf("sentinel %d and %d should not match", i, j)
			}
		}
	}
}
