package bookings

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDateValue indicates that a raw value could not be read as a calendar date.
var ErrInvalidDateValue = errors.New("bookings: invalid date value")

// lenientDateLayouts are tried in order after the canonical layout.
var lenientDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
}

// Date is a calendar day without time-of-day or zone. The zero value is "no date".
type Date struct {
	day time.Time
}

// NewDate returns the calendar date for the provided year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{day: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date in the timestamp's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate reads YYYY-MM-DD, or a full timestamp whose date part is kept.
func ParseDate(raw string) (Date, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Date{}, fmt.Errorf("%w: empty", ErrInvalidDateValue)
	}
	if parsed, err := time.Parse(dateLayout, trimmed); err == nil {
		return DateOf(parsed), nil
	}
	for _, layout := range lenientDateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return DateOf(parsed), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateValue, trimmed)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.day.IsZero()
}

// String renders the date as YYYY-MM-DD, or an empty string when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.day.Format(dateLayout)
}

// Before reports whether d falls on an earlier day than other.
func (d Date) Before(other Date) bool {
	return d.day.Before(other.day)
}

// After reports whether d falls on a later day than other.
func (d Date) After(other Date) bool {
	return d.day.After(other.day)
}

// Equal reports whether both dates denote the same day.
func (d Date) Equal(other Date) bool {
	return d.day.Equal(other.day)
}

// AddDays returns the date shifted by n days.
func (d Date) AddDays(n int) Date {
	return Date{day: d.day.AddDate(0, 0, n)}
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the same forms as ParseDate; an empty string or null yields the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(*raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType maps the column to a native date type.
func (Date) GormDataType() string {
	return "date"
}

// Value stores the date as YYYY-MM-DD text so range predicates compare correctly on every driver.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan accepts text dates (SQLite) and time values (PostgreSQL, or SQLite date-typed columns).
func (d *Date) Scan(src any) error {
	switch value := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(value)
		return nil
	case string:
		return d.scanText(value)
	case []byte:
		return d.scanText(string(value))
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidDateValue, src)
	}
}

func (d *Date) scanText(value string) error {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) > len(dateLayout) {
		trimmed = trimmed[:len(dateLayout)]
	}
	parsed, err := ParseDate(trimmed)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
