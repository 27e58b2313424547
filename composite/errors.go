package composite

import cerrors "cibuild/internal/errors"

// Failure kinds returned by the builder.  Match them with errors.Is.
//
// A failure raised by a delegate during dispatch is not one of these:
// stubs return the delegate's own error values and let its panics
// propagate untouched.
var (
	ErrDuplicateMethodName  = cerrors.ErrDuplicateMethodName
	ErrMissingCapability    = cerrors.ErrMissingCapability
	ErrTypeMismatch         = cerrors.ErrTypeMismatch
	ErrNotCapability        = cerrors.ErrNotCapability
	ErrDuplicateCapability  = cerrors.ErrDuplicateCapability
	ErrUnexpectedCapability = cerrors.ErrUnexpectedCapability
	ErrUnknownMethod        = cerrors.ErrUnknownMethod
	ErrArgumentMismatch     = cerrors.ErrArgumentMismatch
)

// Structured errors, for errors.As.
type (
	ShapeError   = cerrors.ShapeError
	BindingError = cerrors.BindingError
	CallError    = cerrors.CallError
)
