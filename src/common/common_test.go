package common

import (
	"testing"
	"time"

	"gigtix/src/models"
	"gigtix/src/types"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database shared and serializes
	// concurrent test goroutines the way row locks would.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(
		&models.Event{},
		&models.TicketType{},
		&models.Hold{},
		&models.PromoCode{},
		&models.Order{},
		&models.OrderItem{},
		&models.Ticket{},
	))
	return gdb
}

func seedEvent(t *testing.T, db *gorm.DB) *models.Event {
	t.Helper()
	event := models.Event{
		Title:     "Summer Fest",
		Slug:      "summer-fest",
		VenueName: "Riverside Park",
		StartDate: time.Now().Add(30 * 24 * time.Hour),
		Status:    types.EVENT_PUBLISHED,
	}
	require.NoError(t, db.Create(&event).Error)
	return &event
}

func seedTicketType(t *testing.T, db *gorm.DB, eventID uint, name string, priceCents int64, capacity uint) *models.TicketType {
	t.Helper()
	tt := models.TicketType{
		EventID:       eventID,
		Name:          name,
		PriceCents:    priceCents,
		CapacityTotal: capacity,
		MaxPerOrder:   10,
	}
	require.NoError(t, db.Create(&tt).Error)
	return &tt
}

func reloadTicketType(t *testing.T, db *gorm.DB, id uint) *models.TicketType {
	t.Helper()
	var tt models.TicketType
	require.NoError(t, db.First(&tt, id).Error)
	return &tt
}

func requireInvariant(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	tt := reloadTicketType(t, db, id)
	require.LessOrEqual(t, tt.QuantitySold+tt.QuantityHeld, tt.CapacityTotal,
		"sold+held must never exceed capacity for ticket type %d", id)
}
