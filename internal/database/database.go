package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"

	bookingOverlapConstraint = "bookings_no_overlap"
)

func Connect(dsn string, debug bool) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	if IsPostgresDSN(dsn) {
		logrus.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), gormCfg)
	}

	logrus.WithField("dsn", dsn).Info("using SQLite for local development")

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		gormCfg,
	)
}

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Migrate runs AutoMigrate for the given models and installs the booking
// overlap guard on PostgreSQL.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return ensureBookingOverlapGuard(db)
}

// Active bookings on one room may not overlap. SQLite relies on the
// availability check inside the create transaction instead.
func ensureBookingOverlapGuard(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist: %w", err)
	}

	var exists int64
	if err := db.Raw(`SELECT COUNT(1) FROM pg_constraint WHERE conname = ?`, bookingOverlapConstraint).Scan(&exists).Error; err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}

	stmt := `
ALTER TABLE bookings ADD CONSTRAINT ` + bookingOverlapConstraint + `
EXCLUDE USING gist (
  room_id WITH =,
  tstzrange(start_time, end_time, '[)') WITH &&
) WHERE (status IN ('PENDING', 'CONFIRMED', 'IN_PROGRESS'))`
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("add %s: %w", bookingOverlapConstraint, err)
	}
	return nil
}

// IsBookingOverlap reports whether err came from the overlap exclusion constraint.
func IsBookingOverlap(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation && pgErr.ConstraintName == bookingOverlapConstraint
	}
	return false
}

func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
