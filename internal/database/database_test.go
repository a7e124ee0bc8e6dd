package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type probe struct {
	ID   int64  `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex"`
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	db, err := Connect(fmt.Sprintf("file:database_test_%s?mode=memory&cache=shared", t.Name()), false)
	require.NoError(t, err)
	require.NoError(t, Migrate(db, &probe{}))

	require.NoError(t, db.Create(&probe{Code: "A"}).Error)
	err = db.Create(&probe{Code: "A"}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, IsPostgresDSN("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgresDSN("postgresql://u:p@localhost/db"))
	assert.False(t, IsPostgresDSN("nerdsociety.db"))
}

func TestIsBookingOverlap(t *testing.T) {
	overlap := &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"}
	assert.True(t, IsBookingOverlap(fmt.Errorf("create booking: %w", overlap)))
	assert.False(t, IsBookingOverlap(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsBookingOverlap(errors.New("boom")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}
