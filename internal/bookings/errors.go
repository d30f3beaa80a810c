package bookings

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFields indicates an empty name, start or end.
	ErrMissingFields = errors.New("bookings: missing required fields")
	// ErrNameTooLong indicates a name above the storage limit.
	ErrNameTooLong = errors.New("bookings: name too long")
	// ErrInvalidDate indicates a start, end or filter bound that is not a calendar date.
	ErrInvalidDate = errors.New("bookings: invalid date")
	// ErrInvalidRange indicates an end date before the start date.
	ErrInvalidRange = errors.New("bookings: end date before start date")
	// ErrInvalidCode indicates a missing or wrong access code while one is configured.
	ErrInvalidCode = errors.New("bookings: invalid access code")
	// ErrNotFound indicates an update of a booking that does not exist.
	ErrNotFound = errors.New("bookings: booking not found")
	// ErrConflict indicates that the requested range overlaps an existing booking.
	ErrConflict = errors.New("bookings: date range conflicts with an existing booking")
)

var (
	errMissingDatabase = errors.New("database handle is required")
)

// ServiceError wraps unexpected storage failures with a stable dotted code.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew = "bookings.service.new"
	opList       = "bookings.list"
	opCreate     = "bookings.create"
	opUpdate     = "bookings.update"
	opDelete     = "bookings.delete"
	opHealth     = "bookings.health"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

func conflictError(existingID int64) error {
	return fmt.Errorf("%w: overlaps booking %d", ErrConflict, existingID)
}

func notFoundError(id int64) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}
