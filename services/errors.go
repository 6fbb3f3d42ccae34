// services/errors.go
package services

import "fmt"

// ValidationError is a caller-correctable failure: bad date range, an
// unresolvable patient or doctor name, zero line items. Callers should
// re-prompt rather than retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError reports a doctor double-booking. It is surfaced separately
// from validation failures because the caller may override it.
type ConflictError struct {
	DoctorName string
	Date       string
	TimeSlot   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("doctor %s already has an appointment on %s at %s", e.DoctorName, e.Date, e.TimeSlot)
}

// StateError reports an illegal state transition, e.g. paying a voided
// invoice or re-opening a completed queue entry.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return e.Reason
}

func statef(format string, args ...interface{}) *StateError {
	return &StateError{Reason: fmt.Sprintf(format, args...)}
}

// storage errors are wrapped with %w so callers can tell a retryable
// database failure from the typed kinds above
func storagef(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
