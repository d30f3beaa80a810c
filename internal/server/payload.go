package server

import (
	"time"

	"github.com/MarcoPoloResearchLab/bookings/backend/internal/bookings"
	"github.com/gin-gonic/gin"
)

// bookingRequestPayload is the JSON body of create and update. Every field is
// optional on the wire; required-field checks happen in the bookings service.
type bookingRequestPayload struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
	Code  string `json:"code"`
}

// bindBookingRequest decodes the body, treating a malformed or absent body as
// an empty payload so that validation reports the missing fields.
func bindBookingRequest(c *gin.Context) bookingRequestPayload {
	var request bookingRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		return bookingRequestPayload{}
	}
	return request
}

func (p bookingRequestPayload) toDomain() bookings.BookingRequest {
	return bookings.BookingRequest{
		Name:       p.Name,
		Start:      p.Start,
		End:        p.End,
		AccessCode: p.Code,
	}
}

type bookingResponsePayload struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

func newBookingResponse(booking bookings.Booking) bookingResponsePayload {
	return bookingResponsePayload{
		ID:        booking.ID,
		Name:      booking.Name,
		StartDate: booking.StartDate.String(),
		EndDate:   booking.EndDate.String(),
		Note:      booking.NoteText(),
		CreatedAt: booking.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type healthResponsePayload struct {
	OK bool `json:"ok"`
}

type configResponsePayload struct {
	MonthsAhead  int  `json:"months_ahead"`
	CodeRequired bool `json:"code_required"`
}

type realtimeEventPayload struct {
	Kind      string `json:"kind"`
	BookingID int64  `json:"booking_id"`
	Timestamp string `json:"timestamp"`
}

type heartbeatEventPayload struct {
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}
