package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/bookings/backend/internal/auth"
	"github.com/MarcoPoloResearchLab/bookings/backend/internal/bookings"
	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixedCreatedAt = time.Date(2025, time.January, 2, 15, 4, 5, 0, time.UTC)

func newTestBookingsService(t *testing.T, accessCode string) *bookings.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "bookings.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&bookings.Booking{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	service, err := bookings.NewService(bookings.ServiceConfig{
		Database:   db,
		Clock:      func() time.Time { return fixedCreatedAt },
		AccessCode: auth.NewAccessCodeVerifier(accessCode),
	})
	if err != nil {
		t.Fatalf("failed to construct bookings service: %v", err)
	}
	return service
}

func newTestRouter(t *testing.T, service *bookings.Service, realtime *RealtimeDispatcher) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler, err := NewHTTPHandler(Dependencies{
		BookingsService: service,
		Realtime:        realtime,
		MonthsAhead:     6,
		Logger:          zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to construct http handler: %v", err)
	}
	return handler
}

func performJSON(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch typed := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(typed))
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, target, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBooking(t *testing.T, recorder *httptest.ResponseRecorder) bookingResponsePayload {
	t.Helper()
	var payload bookingResponsePayload
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode booking response %q: %v", recorder.Body.String(), err)
	}
	return payload
}

func decodeBookingList(t *testing.T, recorder *httptest.ResponseRecorder) []bookingResponsePayload {
	t.Helper()
	var payload []bookingResponsePayload
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode booking list %q: %v", recorder.Body.String(), err)
	}
	return payload
}
