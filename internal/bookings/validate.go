package bookings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requiredFields is the trimmed request checked before any domain value is built.
type requiredFields struct {
	Name  string `validate:"required,max=120"`
	Start string `validate:"required"`
	End   string `validate:"required"`
}

var fieldValidator = validator.New(validator.WithRequiredStructEnabled())

// validateRequest checks the access code first, then presence, date syntax and ordering.
func (s *Service) validateRequest(request BookingRequest) (bookingInput, error) {
	if err := s.verifyAccessCode(request.AccessCode); err != nil {
		return bookingInput{}, err
	}

	fields := requiredFields{
		Name:  strings.TrimSpace(request.Name),
		Start: strings.TrimSpace(request.Start),
		End:   strings.TrimSpace(request.End),
	}
	if err := fieldValidator.Struct(fields); err != nil {
		return bookingInput{}, translateFieldErrors(err)
	}

	start, err := ParseDate(fields.Start)
	if err != nil {
		return bookingInput{}, fmt.Errorf("%w: start: %v", ErrInvalidDate, err)
	}
	end, err := ParseDate(fields.End)
	if err != nil {
		return bookingInput{}, fmt.Errorf("%w: end: %v", ErrInvalidDate, err)
	}
	if end.Before(start) {
		return bookingInput{}, fmt.Errorf("%w: %s < %s", ErrInvalidRange, end, start)
	}

	return bookingInput{name: fields.Name, start: start, end: end}, nil
}

func (s *Service) verifyAccessCode(provided string) error {
	if s.accessCode == nil || !s.accessCode.Enabled() {
		return nil
	}
	if err := s.accessCode.Verify(provided); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	return nil
}

func translateFieldErrors(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", ErrMissingFields, err)
	}
	missing := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		if fieldError.Tag() == "max" {
			return fmt.Errorf("%w: limit is %d characters", ErrNameTooLong, maxNameLength)
		}
		missing = append(missing, strings.ToLower(fieldError.Field()))
	}
	return fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
}

// ParseRange parses optional list bounds. Both must be present to filter; otherwise nil bounds are returned.
func ParseRange(rawFrom, rawTo string) (*Date, *Date, error) {
	rawFrom = strings.TrimSpace(rawFrom)
	rawTo = strings.TrimSpace(rawTo)
	if rawFrom == "" || rawTo == "" {
		return nil, nil, nil
	}
	from, err := ParseDate(rawFrom)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: from: %v", ErrInvalidDate, err)
	}
	to, err := ParseDate(rawTo)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: to: %v", ErrInvalidDate, err)
	}
	return &from, &to, nil
}
