package bookings

import "gorm.io/gorm"

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite"
)

// lockForWrite serializes conflict-check-then-write sequences for the rest of tx.
//
// PostgreSQL: SHARE ROW EXCLUSIVE conflicts with itself and with plain writes
// but not with readers, so concurrent creates and updates queue on the table.
// A row lock would not help since the competing row does not exist yet.
//
// SQLite: the pool is limited to one connection, and a zero-row UPDATE takes
// the RESERVED lock at the start of the transaction, which also excludes
// writers from other processes sharing the file.
func lockForWrite(tx *gorm.DB) error {
	switch tx.Dialector.Name() {
	case dialectPostgres:
		return tx.Exec("LOCK TABLE bookings IN SHARE ROW EXCLUSIVE MODE").Error
	case dialectSQLite:
		return tx.Exec("UPDATE bookings SET id = id WHERE 1 = 0").Error
	default:
		return nil
	}
}

// intersecting restricts a query to bookings sharing at least one day with [start, end].
func intersecting(start, end Date) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("start_date <= ? AND end_date >= ?", end, start)
	}
}

// findConflict returns the id of the lowest-numbered booking overlapping
// [start, end], ignoring excludeID, or 0 when the range is free.
func findConflict(tx *gorm.DB, start, end Date, excludeID int64) (int64, error) {
	query := tx.Model(&Booking{}).Scopes(intersecting(start, end))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var ids []int64
	if err := query.Order("id ASC").Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}
