package common

import (
	"errors"
	"log"
	"time"

	"gigtix/src/config"
	"gigtix/src/models"
	"gigtix/src/types"

	"gorm.io/gorm"
)

// AddOrUpdateCartItem sets the buyer's held quantity for one ticket type to
// desired, adjusting the ledger by the delta against the current hold. A
// desired quantity of zero removes the hold. Adding an item from a different
// event implicitly clears the existing cart first; every mutation refreshes
// the cart's expiry window.
func AddOrUpdateCartItem(db *gorm.DB, ledger *Ledger, sessionID string, ticketTypeID uint, desired uint) (*types.CartSnapshot, error) {
	now := time.Now()
	var snapshot *types.CartSnapshot
	err := db.Transaction(func(tx *gorm.DB) error {
		var tt models.TicketType
		if err := tx.Where(&models.TicketType{ID: ticketTypeID}).First(&tt).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketTypeNotFound
			}
			return err
		}
		if tt.MaxPerOrder > 0 && desired > tt.MaxPerOrder {
			return &QuantityLimitError{TicketTypeID: tt.ID, Limit: tt.MaxPerOrder}
		}

		// A cart is scoped to a single event. Holds on any other event are
		// released before the new item is established.
		var stale []models.Hold
		if err := tx.
			Where("buyer_session_id = ? AND event_id <> ?", sessionID, tt.EventID).
			Find(&stale).
			Error; err != nil {
			return err
		}
		for _, h := range stale {
			if err := ledger.ReleaseHold(tx, h.TicketTypeID, h.Quantity); err != nil {
				return err
			}
			if err := tx.Delete(&models.Hold{}, h.ID).Error; err != nil {
				return err
			}
		}

		var current uint
		var hold models.Hold
		err := tx.
			Where(&models.Hold{BuyerSessionID: sessionID, TicketTypeID: ticketTypeID}).
			First(&hold).
			Error
		switch {
		case err == nil:
			if hold.ExpiresAt.After(now) {
				current = hold.Quantity
			} else {
				// Expired but not yet swept: give the units back and start over.
				if err := ledger.ReleaseHold(tx, hold.TicketTypeID, hold.Quantity); err != nil {
					return err
				}
				if err := tx.Delete(&models.Hold{}, hold.ID).Error; err != nil {
					return err
				}
				hold = models.Hold{}
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		delta := int64(desired) - int64(current)
		if err := ledger.TryAdjustHold(tx, ticketTypeID, delta); err != nil {
			return err
		}

		expiresAt := now.Add(config.HoldTTL())
		if desired == 0 {
			if hold.ID != 0 {
				if err := tx.Delete(&models.Hold{}, hold.ID).Error; err != nil {
					return err
				}
			}
		} else if hold.ID == 0 {
			hold = models.Hold{
				BuyerSessionID: sessionID,
				TicketTypeID:   ticketTypeID,
				EventID:        tt.EventID,
				Quantity:       desired,
				ExpiresAt:      expiresAt,
			}
			if err := tx.Create(&hold).Error; err != nil {
				return err
			}
		} else {
			if err := tx.
				Model(&models.Hold{}).
				Where("id = ?", hold.ID).
				Updates(map[string]any{"quantity": desired, "expires_at": expiresAt}).
				Error; err != nil {
				return err
			}
		}

		// The whole cart shares one countdown, restarted on every edit.
		if err := tx.
			Model(&models.Hold{}).
			Where("buyer_session_id = ? AND event_id = ?", sessionID, tt.EventID).
			Update("expires_at", expiresAt).
			Error; err != nil {
			return err
		}

		s, err := buildCartSnapshot(tx, sessionID, now)
		if err != nil {
			return err
		}
		snapshot = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// GetCart returns the buyer's live holds. Expired rows are excluded; the
// sweep reclaims their units separately.
func GetCart(db *gorm.DB, sessionID string) (*types.CartSnapshot, error) {
	return buildCartSnapshot(db, sessionID, time.Now())
}

// ClearCart releases every hold the buyer has and deletes the rows.
func ClearCart(db *gorm.DB, ledger *Ledger, sessionID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var holds []models.Hold
		if err := tx.Where("buyer_session_id = ?", sessionID).Find(&holds).Error; err != nil {
			return err
		}
		for _, h := range holds {
			if err := ledger.ReleaseHold(tx, h.TicketTypeID, h.Quantity); err != nil {
				return err
			}
			if err := tx.Delete(&models.Hold{}, h.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ExpireSweep reclaims holds whose expiry has passed. The row is deleted
// with a conditional delete before any units are released, so a hold that a
// concurrent settlement already consumed (and deleted) is skipped, making
// the sweep idempotent against racing commits.
func ExpireSweep(db *gorm.DB, ledger *Ledger, now time.Time) (int, error) {
	var expired []models.Hold
	if err := db.
		Where("expires_at <= ?", now).
		Limit(500).
		Find(&expired).
		Error; err != nil {
		return 0, err
	}
	released := 0
	for _, h := range expired {
		h := h
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.
				Where("id = ? AND expires_at <= ?", h.ID, now).
				Delete(&models.Hold{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
			return ledger.ReleaseHold(tx, h.TicketTypeID, h.Quantity)
		})
		if err != nil {
			log.Printf("Error releasing expired hold [%d]: %s\n", h.ID, err.Error())
			continue
		}
		released++
	}
	if released > 0 {
		log.Printf("Expiry sweep released %d hold(s)\n", released)
	}
	return released, nil
}

func buildCartSnapshot(tx *gorm.DB, sessionID string, now time.Time) (*types.CartSnapshot, error) {
	var holds []models.Hold
	if err := tx.
		Where("buyer_session_id = ? AND expires_at > ?", sessionID, now).
		Preload("TicketType").
		Order("id").
		Find(&holds).
		Error; err != nil {
		return nil, err
	}
	snapshot := &types.CartSnapshot{Items: []types.CartItemSnapshot{}}
	for _, h := range holds {
		subtotal := int64(h.Quantity) * h.TicketType.PriceCents
		snapshot.Items = append(snapshot.Items, types.CartItemSnapshot{
			TicketTypeID:   h.TicketTypeID,
			TicketTypeName: h.TicketType.Name,
			Quantity:       h.Quantity,
			UnitPriceCents: h.TicketType.PriceCents,
			SubtotalCents:  subtotal,
			ExpiresAt:      h.ExpiresAt,
		})
		snapshot.SubtotalCents += subtotal
		if snapshot.EventID == nil {
			eventID := h.EventID
			snapshot.EventID = &eventID
		}
		if snapshot.ExpiresAt == nil || h.ExpiresAt.Before(*snapshot.ExpiresAt) {
			expiresAt := h.ExpiresAt
			snapshot.ExpiresAt = &expiresAt
		}
	}
	return snapshot, nil
}
