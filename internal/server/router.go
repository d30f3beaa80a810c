package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MarcoPoloResearchLab/bookings/backend/internal/bookings"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultHeartbeatInterval = 25 * time.Second

var (
	errMissingBookingsService = errors.New("bookings service dependency required")
)

type Dependencies struct {
	BookingsService   *bookings.Service
	Realtime          *RealtimeDispatcher
	MonthsAhead       int
	HeartbeatInterval time.Duration
	Logger            *zap.Logger
}

func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.BookingsService == nil {
		return nil, errMissingBookingsService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	heartbeat := deps.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(accessLogMiddleware(logger))
	router.Use(corsMiddleware())

	handler := &httpHandler{
		bookingsService:   deps.BookingsService,
		realtime:          deps.Realtime,
		monthsAhead:       deps.MonthsAhead,
		heartbeatInterval: heartbeat,
		logger:            logger,
	}

	router.GET("/health", handler.handleHealth)

	api := router.Group("/api")
	api.GET("/config", handler.handleConfig)
	api.GET("/bookings", handler.handleListBookings)
	api.POST("/bookings", handler.handleCreateBooking)
	api.GET("/bookings/events", handler.handleBookingEvents)
	api.PUT("/bookings/:id", handler.handleUpdateBooking)
	api.DELETE("/bookings/:id", handler.handleDeleteBooking)

	return router, nil
}

type httpHandler struct {
	bookingsService   *bookings.Service
	realtime          *RealtimeDispatcher
	monthsAhead       int
	heartbeatInterval time.Duration
	logger            *zap.Logger
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponsePayload{OK: h.bookingsService.HealthCheck(c.Request.Context())})
}

func (h *httpHandler) handleConfig(c *gin.Context) {
	c.JSON(http.StatusOK, configResponsePayload{
		MonthsAhead:  h.monthsAhead,
		CodeRequired: h.bookingsService.AccessCodeRequired(),
	})
}

func (h *httpHandler) handleListBookings(c *gin.Context) {
	from, to, err := bookings.ParseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	stored, err := h.bookingsService.List(c.Request.Context(), from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]bookingResponsePayload, 0, len(stored))
	for _, booking := range stored {
		response = append(response, newBookingResponse(booking))
	}
	c.JSON(http.StatusOK, response)
}

func (h *httpHandler) handleCreateBooking(c *gin.Context) {
	request := bindBookingRequest(c)

	created, err := h.bookingsService.Create(c.Request.Context(), request.toDomain())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.publishChange(RealtimeKindCreated, created.ID)
	c.JSON(http.StatusCreated, newBookingResponse(created))
}

func (h *httpHandler) handleUpdateBooking(c *gin.Context) {
	bookingID, ok := h.bookingIDParam(c)
	if !ok {
		return
	}
	request := bindBookingRequest(c)

	updated, err := h.bookingsService.Update(c.Request.Context(), bookingID, request.toDomain())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.publishChange(RealtimeKindUpdated, updated.ID)
	c.JSON(http.StatusOK, newBookingResponse(updated))
}

func (h *httpHandler) handleDeleteBooking(c *gin.Context) {
	bookingID, ok := h.bookingIDParam(c)
	if !ok {
		return
	}

	removed, err := h.bookingsService.Delete(c.Request.Context(), bookingID, c.Query("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if removed {
		h.publishChange(RealtimeKindDeleted, bookingID)
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) bookingIDParam(c *gin.Context) (int64, bool) {
	bookingID, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || bookingID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return bookingID, true
}

func (h *httpHandler) publishChange(kind string, bookingID int64) {
	if h.realtime == nil {
		return
	}
	h.realtime.Publish(RealtimeMessage{
		EventType: RealtimeEventBookingChanged,
		Kind:      kind,
		BookingID: bookingID,
		Timestamp: time.Now().UTC(),
	})
}

// respondError maps domain errors onto the public error codes. Anything else
// is an internal failure reported only by its service error code.
func (h *httpHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, bookings.ErrInvalidCode):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_code"})
	case errors.Is(err, bookings.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_fields"})
	case errors.Is(err, bookings.ErrNameTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": "name_too_long"})
	case errors.Is(err, bookings.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date"})
	case errors.Is(err, bookings.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "range"})
	case errors.Is(err, bookings.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, bookings.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	default:
		code := "internal"
		var serviceErr *bookings.ServiceError
		if errors.As(err, &serviceErr) {
			code = serviceErr.Code()
		}
		h.logger.Error("booking request failed",
			zap.String("code", code),
			zap.String("request_id", c.GetString(requestIDContextKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "code": code})
	}
}
