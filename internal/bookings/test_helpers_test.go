package bookings

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/MarcoPoloResearchLab/bookings/backend/internal/auth"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var fixedNow = time.Unix(1700000600, 0).UTC()

func newTestService(t *testing.T, accessCode string) (*Service, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "bookings.db")
	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{})
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

	if err := db.AutoMigrate(&Booking{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	service, err := NewService(ServiceConfig{
		Database:   db,
		Clock:      func() time.Time { return fixedNow },
		AccessCode: auth.NewAccessCodeVerifier(accessCode),
	})
	if err != nil {
		t.Fatalf("failed to construct bookings service: %v", err)
	}
	return service, db
}

func mustDate(t *testing.T, value string) Date {
	t.Helper()
	date, err := ParseDate(value)
	if err != nil {
		t.Fatalf("unexpected date error for %q: %v", value, err)
	}
	return date
}

func mustCreate(t *testing.T, service *Service, name, start, end string) Booking {
	t.Helper()
	booking, err := service.Create(t.Context(), BookingRequest{Name: name, Start: start, End: end})
	if err != nil {
		t.Fatalf("failed to create booking %s [%s, %s]: %v", name, start, end, err)
	}
	return booking
}

func countBookings(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&Booking{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count bookings: %v", err)
	}
	return count
}
