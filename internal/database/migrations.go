package database

import (
	"errors"
	"time"

	"github.com/MarcoPoloResearchLab/bookings/backend/internal/bookings"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	migrationClearBlankLegacyNotes  = "2024-02-01_clear_blank_legacy_notes"
	migrationDropLegacyRangeIndexes = "2024-02-01_drop_legacy_range_indexes"
	legacyStartDateIndex            = "ix_bookings_start_date"
	legacyEndDateIndex              = "ix_bookings_end_date"
)

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationClearBlankLegacyNotes, apply: clearBlankLegacyNotes},
		{name: migrationDropLegacyRangeIndexes, apply: dropLegacyRangeIndexes},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// clearBlankLegacyNotes stores absent notes as NULL; older clients wrote empty strings.
func clearBlankLegacyNotes(db *gorm.DB) error {
	return db.Model(&bookings.Booking{}).
		Where("note = ?", "").
		Update("note", nil).Error
}

// dropLegacyRangeIndexes removes the single-column date indexes superseded by idx_bookings_range.
func dropLegacyRangeIndexes(db *gorm.DB) error {
	for _, index := range []string{legacyStartDateIndex, legacyEndDateIndex} {
		if !db.Migrator().HasIndex(&bookings.Booking{}, index) {
			continue
		}
		if err := db.Migrator().DropIndex(&bookings.Booking{}, index); err != nil {
			return err
		}
	}
	return nil
}
