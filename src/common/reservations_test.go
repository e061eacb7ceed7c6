package common

import (
	"testing"
	"time"

	"gigtix/src/models"
	"gigtix/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func holdFor(t *testing.T, db *gorm.DB, sessionID string, ticketTypeID uint) *models.Hold {
	t.Helper()
	var hold models.Hold
	err := db.Where("buyer_session_id = ? AND ticket_type_id = ?", sessionID, ticketTypeID).First(&hold).Error
	if err != nil {
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		return nil
	}
	return &hold
}

func TestAddOrUpdateCartItemLifecycle(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()
	event := seedEvent(t, db)
	tt := seedTicketType(t, db, event.ID, "GA", 2500, 20)

	snapshot, err := AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 3)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, uint(3), snapshot.Items[0].Quantity)
	assert.Equal(t, int64(7500), snapshot.SubtotalCents)
	assert.Equal(t, uint(3), reloadTicketType(t, db, tt.ID).QuantityHeld)

	// Raising the quantity adjusts by the delta, not the full amount.
	snapshot, err = AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), snapshot.Items[0].Quantity)
	assert.Equal(t, uint(5), reloadTicketType(t, db, tt.ID).QuantityHeld)

	snapshot, err = AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), snapshot.Items[0].Quantity)
	assert.Equal(t, uint(2), reloadTicketType(t, db, tt.ID).QuantityHeld)

	// Zero removes the hold entirely.
	snapshot, err = AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Items)
	assert.Equal(t, uint(0), reloadTicketType(t, db, tt.ID).QuantityHeld)
	assert.Nil(t, holdFor(t, db, "sess-1", tt.ID))
	requireInvariant(t, db, tt.ID)
}

func TestAddOrUpdateCartItemUnknownTicketType(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()

	_, err := AddOrUpdateCartItem(db, ledger, "sess-1", 999, 1)
	require.ErrorIs(t, err, ErrTicketTypeNotFound)
}

func TestAddOrUpdateCartItemMaxPerOrder(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()
	event := seedEvent(t, db)
	tt := seedTicketType(t, db, event.ID, "GA", 2500, 100)

	_, err := AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 11)
	var limitErr *QuantityLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, tt.ID, limitErr.TicketTypeID)
	assert.Equal(t, uint(10), limitErr.Limit)
	assert.Equal(t, uint(0), reloadTicketType(t, db, tt.ID).QuantityHeld)
}

func TestAddOrUpdateCartItemInsufficientInventory(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()
	event := seedEvent(t, db)
	tt := seedTicketType(t, db, event.ID, "GA", 2500, 5)

	_, err := AddOrUpdateCartItem(db, ledger, "other", tt.ID, 3)
	require.NoError(t, err)

	_, err = AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 4)
	var invErr *InsufficientInventoryError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, tt.ID, invErr.TicketTypeID)
	assert.Equal(t, int64(2), invErr.Available)

	// A failed add must leave no hold behind.
	assert.Nil(t, holdFor(t, db, "sess-1", tt.ID))
	assert.Equal(t, uint(3), reloadTicketType(t, db, tt.ID).QuantityHeld)
}

func TestAddOrUpdateCartItemCrossEventClearsCart(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()
	eventA := seedEvent(t, db)
	eventB := models.Event{Title: "Second Night", Slug: "second-night", StartDate: time.Now().Add(48 * time.Hour), Status: types.EVENT_PUBLISHED}
	require.NoError(t, db.Create(&eventB).Error)
	ttA := seedTicketType(t, db, eventA.ID, "GA", 2500, 20)
	ttB := seedTicketType(t, db, eventB.ID, "GA", 3000, 20)

	_, err := AddOrUpdateCartItem(db, ledger, "sess-1", ttA.ID, 4)
	require.NoError(t, err)

	snapshot, err := AddOrUpdateCartItem(db, ledger, "sess-1", ttB.ID, 2)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, ttB.ID, snapshot.Items[0].TicketTypeID)
	require.NotNil(t, snapshot.EventID)
	assert.Equal(t, eventB.ID, *snapshot.EventID)

	// The old event's units went back to the pool.
	assert.Equal(t, uint(0), reloadTicketType(t, db, ttA.ID).QuantityHeld)
	assert.Equal(t, uint(2), reloadTicketType(t, db, ttB.ID).QuantityHeld)
	assert.Nil(t, holdFor(t, db, "sess-1", ttA.ID))
}

func TestAddOrUpdateCartItemRefreshesWholeCart(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()
	event := seedEvent(t, db)
	tt1 := seedTicketType(t, db, event.ID, "GA", 2500, 20)
	tt2 := seedTicketType(t, db, event.ID, "VIP", 9000, 20)

	_, err := AddOrUpdateCartItem(db, ledger, "sess-1", tt1.ID, 1)
	require.NoError(t, err)
	// Shorten the first hold's window so the refresh is observable.
	preRefresh := time.Now().Add(time.Minute)
	require.NoError(t, db.Model(&models.Hold{}).
		Where("buyer_session_id = ?", "sess-1").
		Update("expires_at", preRefresh).Error)

	_, err = AddOrUpdateCartItem(db, ledger, "sess-1", tt2.ID, 1)
	require.NoError(t, err)

	first := holdFor(t, db, "sess-1", tt1.ID)
	second := holdFor(t, db, "sess-1", tt2.ID)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.True(t, first.ExpiresAt.After(preRefresh))
	assert.WithinDuration(t, second.ExpiresAt, first.ExpiresAt, time.Second)
}

func TestAddOrUpdateCartItemResetsExpiredOwnHold(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()
	event := seedEvent(t, db)
	tt := seedTicketType(t, db, event.ID, "GA", 2500, 20)

	_, err := AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 5)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Hold{}).
		Where("buyer_session_id = ?", "sess-1").
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	// The expired hold is released and re-established from scratch, so the
	// ledger ends at the new quantity, not old plus new.
	snapshot, err := AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 2)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, uint(2), snapshot.Items[0].Quantity)
	assert.Equal(t, uint(2), reloadTicketType(t, db, tt.ID).QuantityHeld)
	requireInvariant(t, db, tt.ID)
}

func TestGetCartExcludesExpiredHolds(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()
	event := seedEvent(t, db)
	tt := seedTicketType(t, db, event.ID, "GA", 2500, 20)

	_, err := AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 2)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Hold{}).
		Where("buyer_session_id = ?", "sess-1").
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	snapshot, err := GetCart(db, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, snapshot.Items)
	assert.Zero(t, snapshot.SubtotalCents)
}

func TestClearCart(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()
	event := seedEvent(t, db)
	tt1 := seedTicketType(t, db, event.ID, "GA", 2500, 20)
	tt2 := seedTicketType(t, db, event.ID, "VIP", 9000, 20)

	_, err := AddOrUpdateCartItem(db, ledger, "sess-1", tt1.ID, 3)
	require.NoError(t, err)
	_, err = AddOrUpdateCartItem(db, ledger, "sess-1", tt2.ID, 2)
	require.NoError(t, err)

	require.NoError(t, ClearCart(db, ledger, "sess-1"))

	assert.Equal(t, uint(0), reloadTicketType(t, db, tt1.ID).QuantityHeld)
	assert.Equal(t, uint(0), reloadTicketType(t, db, tt2.ID).QuantityHeld)
	var count int64
	require.NoError(t, db.Model(&models.Hold{}).Where("buyer_session_id = ?", "sess-1").Count(&count).Error)
	assert.Zero(t, count)
}

func TestExpireSweepReclaimsUnits(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()
	event := seedEvent(t, db)
	tt := seedTicketType(t, db, event.ID, "GA", 2500, 20)

	_, err := AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 4)
	require.NoError(t, err)
	_, err = AddOrUpdateCartItem(db, ledger, "sess-2", tt.ID, 2)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Hold{}).
		Where("buyer_session_id = ?", "sess-1").
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	released, err := ExpireSweep(db, ledger, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	// Only the expired session's units came back.
	assert.Equal(t, uint(2), reloadTicketType(t, db, tt.ID).QuantityHeld)
	assert.Nil(t, holdFor(t, db, "sess-1", tt.ID))
	assert.NotNil(t, holdFor(t, db, "sess-2", tt.ID))
	requireInvariant(t, db, tt.ID)
}

func TestExpireSweepSkipsAlreadyDeletedHold(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger()
	event := seedEvent(t, db)
	tt := seedTicketType(t, db, event.ID, "GA", 2500, 20)

	_, err := AddOrUpdateCartItem(db, ledger, "sess-1", tt.ID, 3)
	require.NoError(t, err)
	hold := holdFor(t, db, "sess-1", tt.ID)
	require.NotNil(t, hold)
	require.NoError(t, db.Model(&models.Hold{}).
		Where("id = ?", hold.ID).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	released, err := ExpireSweep(db, ledger, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	// Running again finds nothing and releases nothing twice.
	released, err = ExpireSweep(db, ledger, time.Now())
	require.NoError(t, err)
	assert.Zero(t, released)
	assert.Equal(t, uint(0), reloadTicketType(t, db, tt.ID).QuantityHeld)
}
