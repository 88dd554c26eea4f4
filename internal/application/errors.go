package application

import "errors"

var (
	// ErrNotFound is returned when the requested room or booking does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrPolicyViolation is returned when the strike ledger blocks a new
	// booking or an operation targets a terminal booking.
	ErrPolicyViolation = errors.New("application: policy violation")
	// ErrInvalidState is returned when an operation is attempted on a booking
	// whose time-relative state forbids it, such as cancelling a booking that
	// already started.
	ErrInvalidState = errors.New("application: invalid state")
	// ErrSlotUnavailable is returned when the requested slot is already taken
	// at submission time.
	ErrSlotUnavailable = errors.New("application: slot unavailable")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
