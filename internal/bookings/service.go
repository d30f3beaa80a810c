package bookings

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var noOpLogger = zap.NewNop()

// AccessCodeVerifier guards write operations with a shared secret.
type AccessCodeVerifier interface {
	Enabled() bool
	Verify(code string) error
}

type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	AccessCode AccessCodeVerifier
	Logger     *zap.Logger
}

// Service owns the booking collection and keeps booked ranges pairwise disjoint.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	accessCode AccessCodeVerifier
	logger     *zap.Logger
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:         cfg.Database,
		clock:      clock,
		accessCode: cfg.AccessCode,
		logger:     logger,
	}, nil
}

// AccessCodeRequired reports whether writes must present the shared access code.
func (s *Service) AccessCodeRequired() bool {
	return s != nil && s.accessCode != nil && s.accessCode.Enabled()
}

// List returns bookings ordered by start date. When both bounds are set only
// bookings intersecting [from, to] are returned.
func (s *Service) List(ctx context.Context, from, to *Date) ([]Booking, error) {
	if s.db == nil {
		s.logError(opList, "missing_database", errMissingDatabase)
		return nil, newServiceError(opList, "missing_database", errMissingDatabase)
	}

	query := s.db.WithContext(ctx).Model(&Booking{})
	if from != nil && to != nil {
		query = query.Scopes(intersecting(*from, *to))
	}

	var bookings []Booking
	if err := query.Order("start_date ASC").Order("id ASC").Find(&bookings).Error; err != nil {
		s.logError(opList, "query_failed", err)
		return nil, newServiceError(opList, "query_failed", err)
	}
	return bookings, nil
}

// Create validates the request and inserts it unless its range overlaps an existing booking.
func (s *Service) Create(ctx context.Context, request BookingRequest) (Booking, error) {
	if s.db == nil {
		s.logError(opCreate, "missing_database", errMissingDatabase)
		return Booking{}, newServiceError(opCreate, "missing_database", errMissingDatabase)
	}

	input, err := s.validateRequest(request)
	if err != nil {
		return Booking{}, err
	}

	var created Booking
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForWrite(tx); err != nil {
			s.logError(opCreate, "lock_failed", err)
			return newServiceError(opCreate, "lock_failed", err)
		}

		conflictID, err := findConflict(tx, input.start, input.end, 0)
		if err != nil {
			s.logError(opCreate, "conflict_query_failed", err)
			return newServiceError(opCreate, "conflict_query_failed", err)
		}
		if conflictID != 0 {
			return conflictError(conflictID)
		}

		created = Booking{
			Name:      input.name,
			StartDate: input.start,
			EndDate:   input.end,
			CreatedAt: s.clock().UTC(),
		}
		if err := tx.Create(&created).Error; err != nil {
			s.logError(opCreate, "insert_failed", err)
			return newServiceError(opCreate, "insert_failed", err)
		}
		return nil
	})
	if txErr != nil {
		return Booking{}, txErr
	}

	s.loggerOrDefault().Debug("booking created",
		zap.Int64("booking_id", created.ID),
		zap.Stringer("start_date", created.StartDate),
		zap.Stringer("end_date", created.EndDate))
	return created, nil
}

// Update replaces name and dates of an existing booking. The booking's own
// range never counts as a conflict.
func (s *Service) Update(ctx context.Context, id int64, request BookingRequest) (Booking, error) {
	if s.db == nil {
		s.logError(opUpdate, "missing_database", errMissingDatabase)
		return Booking{}, newServiceError(opUpdate, "missing_database", errMissingDatabase)
	}

	input, err := s.validateRequest(request)
	if err != nil {
		return Booking{}, err
	}

	var updated Booking
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForWrite(tx); err != nil {
			s.logError(opUpdate, "lock_failed", err, zap.Int64("booking_id", id))
			return newServiceError(opUpdate, "lock_failed", err)
		}

		err := tx.Where("id = ?", id).Take(&updated).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError(id)
		}
		if err != nil {
			s.logError(opUpdate, "select_failed", err, zap.Int64("booking_id", id))
			return newServiceError(opUpdate, "select_failed", err)
		}

		conflictID, err := findConflict(tx, input.start, input.end, id)
		if err != nil {
			s.logError(opUpdate, "conflict_query_failed", err, zap.Int64("booking_id", id))
			return newServiceError(opUpdate, "conflict_query_failed", err)
		}
		if conflictID != 0 {
			return conflictError(conflictID)
		}

		err = tx.Model(&Booking{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"name":       input.name,
				"start_date": input.start,
				"end_date":   input.end,
			}).Error
		if err != nil {
			s.logError(opUpdate, "update_failed", err, zap.Int64("booking_id", id))
			return newServiceError(opUpdate, "update_failed", err)
		}

		updated.Name = input.name
		updated.StartDate = input.start
		updated.EndDate = input.end
		return nil
	})
	if txErr != nil {
		return Booking{}, txErr
	}
	return updated, nil
}

// Delete removes the booking when present. Deleting a missing id is not an
// error; the returned flag tells whether a row was removed.
func (s *Service) Delete(ctx context.Context, id int64, accessCode string) (bool, error) {
	if s.db == nil {
		s.logError(opDelete, "missing_database", errMissingDatabase)
		return false, newServiceError(opDelete, "missing_database", errMissingDatabase)
	}
	if err := s.verifyAccessCode(accessCode); err != nil {
		return false, err
	}

	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Booking{})
	if result.Error != nil {
		s.logError(opDelete, "delete_failed", result.Error, zap.Int64("booking_id", id))
		return false, newServiceError(opDelete, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		s.loggerOrDefault().Debug("delete of missing booking ignored", zap.Int64("booking_id", id))
		return false, nil
	}
	return true, nil
}

// HealthCheck performs a trivial count against the store. It never panics or
// returns an error; any failure is reported as false.
func (s *Service) HealthCheck(ctx context.Context) (healthy bool) {
	if s == nil || s.db == nil {
		return false
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			s.loggerOrDefault().Warn("booking store health check panicked",
				zap.String("operation", opHealth),
				zap.Any("panic", recovered))
			healthy = false
		}
	}()

	var count int64
	if err := s.db.WithContext(ctx).Model(&Booking{}).Count(&count).Error; err != nil {
		s.loggerOrDefault().Warn("booking store health check failed",
			zap.String("operation", opHealth),
			zap.Error(err))
		return false
	}
	return true
}

func (s *Service) loggerOrDefault() *zap.Logger {
	if s == nil {
		return noOpLogger
	}
	if s.logger == nil {
		return noOpLogger
	}
	return s.logger
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("bookings service error", attrs...)
}
