package common

import (
	"errors"
	"log"

	"gigtix/src/models"

	"gorm.io/gorm"
)

// Ledger is the single source of truth for ticket availability. Every
// counter mutation is a single conditional UPDATE guarded by the invariant
// quantity_sold + quantity_held <= capacity_total, checked by the database
// at the instant of the write, never by a prior read. Row locking in the
// database serializes concurrent writers; the ledger itself holds no
// in-process locks, so callers may run several ledger operations on the
// same ticket type inside one transaction without stalling other requests.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

var defaultLedger = NewLedger()

// GetLedger returns the process-wide ledger.
func GetLedger() *Ledger {
	return defaultLedger
}

// AvailableUnits returns capacity_total - quantity_sold - quantity_held.
func (l *Ledger) AvailableUnits(tx *gorm.DB, ticketTypeID uint) (int64, error) {
	var tt models.TicketType
	err := tx.
		Select("id", "capacity_total", "quantity_sold", "quantity_held").
		Where(&models.TicketType{ID: ticketTypeID}).
		First(&tt).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTicketTypeNotFound
		}
		return 0, err
	}
	return tt.Available(), nil
}

// TryAdjustHold applies quantity_held += delta only if the result keeps
// 0 <= sold + held <= capacity. A delta that would break the invariant
// leaves the row untouched and returns InsufficientInventoryError.
func (l *Ledger) TryAdjustHold(tx *gorm.DB, ticketTypeID uint, delta int64) error {
	if delta == 0 {
		return nil
	}
	res := tx.
		Model(&models.TicketType{}).
		Where("id = ?", ticketTypeID).
		Where("quantity_held + ? >= 0", delta).
		Where("quantity_sold + quantity_held + ? <= capacity_total", delta).
		Update("quantity_held", gorm.Expr("quantity_held + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		available, err := l.AvailableUnits(tx, ticketTypeID)
		if err != nil {
			return err
		}
		return &InsufficientInventoryError{TicketTypeID: ticketTypeID, Available: available}
	}
	return nil
}

// CommitHoldToSold converts quantity units from held to sold. It rejects
// when fewer than quantity units are held at the instant of commit, which
// happens when the hold was already released or consumed by another actor.
func (l *Ledger) CommitHoldToSold(tx *gorm.DB, ticketTypeID uint, quantity uint) error {
	if quantity == 0 {
		return nil
	}
	res := tx.
		Model(&models.TicketType{}).
		Where("id = ? AND quantity_held >= ?", ticketTypeID, quantity).
		Updates(map[string]any{
			"quantity_held": gorm.Expr("quantity_held - ?", quantity),
			"quantity_sold": gorm.Expr("quantity_sold + ?", quantity),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		available, err := l.AvailableUnits(tx, ticketTypeID)
		if err != nil {
			return err
		}
		return &InsufficientInventoryError{TicketTypeID: ticketTypeID, Available: available}
	}
	return nil
}

// ReleaseHold gives quantity held units back, flooring at zero so a
// double release of the same hold can never underflow the counter.
func (l *Ledger) ReleaseHold(tx *gorm.DB, ticketTypeID uint, quantity uint) error {
	if quantity == 0 {
		return nil
	}
	res := tx.
		Model(&models.TicketType{}).
		Where("id = ? AND quantity_held >= ?", ticketTypeID, quantity).
		Update("quantity_held", gorm.Expr("quantity_held - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		res = tx.
			Model(&models.TicketType{}).
			Where("id = ? AND quantity_held > 0", ticketTypeID).
			Update("quantity_held", 0)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			log.Printf("ReleaseHold floored ticket type [%d]: released more than was held\n", ticketTypeID)
		}
	}
	return nil
}
