package bookings

import "time"

const maxNameLength = 120

// Booking is a persisted reservation of an inclusive date range.
type Booking struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;size:120;not null"`
	StartDate Date      `gorm:"column:start_date;not null;index:idx_bookings_range,priority:1"`
	EndDate   Date      `gorm:"column:end_date;not null;index:idx_bookings_range,priority:2"`
	Note      *string   `gorm:"column:note;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (Booking) TableName() string {
	return "bookings"
}

// NoteText returns the legacy note, or an empty string when none was stored.
func (b Booking) NoteText() string {
	if b.Note == nil {
		return ""
	}
	return *b.Note
}

// Overlaps reports whether the booking shares at least one day with [start, end].
func (b Booking) Overlaps(start, end Date) bool {
	return Overlaps(b.StartDate, b.EndDate, start, end)
}

// Overlaps applies the closed-interval test: [aStart, aEnd] and [bStart, bEnd]
// intersect iff aStart <= bEnd and aEnd >= bStart.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// BookingRequest carries raw client input for create and update.
type BookingRequest struct {
	Name       string
	Start      string
	End        string
	AccessCode string
}

// bookingInput is a validated BookingRequest.
type bookingInput struct {
	name  string
	start Date
	end   Date
}
