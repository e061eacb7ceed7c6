package common

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"gigtix/src/models"
	"gigtix/src/types"
	"gigtix/src/utils"

	"gorm.io/gorm"
)

// SettlementInput is a finalized cart plus buyer contact info. Totals are
// not part of the input: every amount is recomputed here, server-side.
type SettlementInput struct {
	BuyerSessionID string
	Items          []types.CheckoutItem
	PromoCode      *string
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  *string
	BillingAddress *types.JSONB
}

// SettleOrder is the commit path: it re-validates the cart against live
// hold state, converts held inventory to sold, re-validates the promo code
// and consumes its usage slot, recomputes totals, persists the order, mints
// one ticket per unit and deletes the spent holds. Everything runs
// in one database transaction; any failure rolls the whole attempt back,
// including the inventory commits, so consumed inventory without a
// matching order can never be observed.
func SettleOrder(db *gorm.DB, ledger *Ledger, in *SettlementInput) (*types.OrderReceipt, error) {
	now := time.Now()
	var receipt *types.OrderReceipt
	err := db.Transaction(func(tx *gorm.DB) error {
		items := make([]types.CheckoutItem, len(in.Items))
		copy(items, in.Items)
		sort.Slice(items, func(i, j int) bool { return items[i].TicketTypeID < items[j].TicketTypeID })
		for i := 1; i < len(items); i++ {
			if items[i].TicketTypeID == items[i-1].TicketTypeID {
				return ErrCartOutOfSync
			}
		}

		var holds []models.Hold
		if err := tx.
			Where("buyer_session_id = ?", in.BuyerSessionID).
			Find(&holds).
			Error; err != nil {
			return err
		}
		holdByType := make(map[uint]models.Hold, len(holds))
		for _, h := range holds {
			if h.ExpiresAt.After(now) {
				holdByType[h.TicketTypeID] = h
			}
		}
		for _, item := range items {
			h, ok := holdByType[item.TicketTypeID]
			if !ok || item.Quantity > h.Quantity {
				return ErrCartOutOfSync
			}
		}

		var event models.Event
		ttByID := make(map[uint]models.TicketType, len(items))
		var subtotal int64
		for _, item := range items {
			var tt models.TicketType
			if err := tx.Preload("Event").Where(&models.TicketType{ID: item.TicketTypeID}).First(&tt).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTicketTypeNotFound
				}
				return err
			}
			if event.ID == 0 {
				event = tt.Event
			} else if event.ID != tt.EventID {
				return ErrCartOutOfSync
			}
			ttByID[tt.ID] = tt
			subtotal += int64(item.Quantity) * tt.PriceCents
		}

		// Hold-to-sold conversion, in ascending ticket-type order across
		// all callers so two multi-type orders can never deadlock.
		for _, item := range items {
			if err := ledger.CommitHoldToSold(tx, item.TicketTypeID, item.Quantity); err != nil {
				return err
			}
		}

		var discount int64
		var decision *PromoDecision
		if in.PromoCode != nil && NormalizePromoCode(*in.PromoCode) != "" {
			d, err := ValidatePromoCode(tx, *in.PromoCode, event.ID, subtotal, now)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrPromoNoLongerValid, err.Error())
			}
			// Consuming the usage slot writes the promo row, holding its
			// lock until commit. Settlements with the same code serialize
			// on that write, so the per-customer count below always sees
			// every committed redemption.
			if err := ConsumePromoCode(tx, d.PromoID); err != nil {
				return fmt.Errorf("%w: %s", ErrPromoNoLongerValid, err.Error())
			}
			if d.PerCustomerLimit > 0 {
				var used int64
				if err := tx.
					Model(&models.Order{}).
					Where("customer_email = ? AND promo_code = ? AND status = ?", in.CustomerEmail, d.Code, types.ORDER_COMPLETED).
					Count(&used).
					Error; err != nil {
					return err
				}
				if used >= int64(d.PerCustomerLimit) {
					return fmt.Errorf("%w: %s", ErrPromoNoLongerValid, ErrPromoUsageExceeded.Error())
				}
			}
			discount = ComputeDiscount(d, subtotal)
			decision = d
		}

		fees := utils.ComputeFees(subtotal)
		tax := utils.ComputeTax(subtotal, fees)
		total := subtotal - discount + fees + tax
		if total < 0 {
			total = 0
		}

		order := models.Order{
			OrderNumber:        utils.GenerateOrderNumber(),
			EventID:            event.ID,
			Status:             types.ORDER_COMPLETED,
			ItemsSubtotalCents: subtotal,
			DiscountCents:      discount,
			FeesCents:          fees,
			TaxCents:           tax,
			TotalCents:         total,
			CustomerName:       in.CustomerName,
			CustomerEmail:      in.CustomerEmail,
			CustomerPhone:      in.CustomerPhone,
			BillingAddress:     in.BillingAddress,
		}
		if decision != nil {
			code := decision.Code
			order.PromoCode = &code
		}
		for _, item := range items {
			tt := ttByID[item.TicketTypeID]
			order.Items = append(order.Items, models.OrderItem{
				TicketTypeID:      item.TicketTypeID,
				Quantity:          item.Quantity,
				PricePerItemCents: tt.PriceCents,
				SubtotalCents:     int64(item.Quantity) * tt.PriceCents,
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		tickets := make([]types.TicketReceipt, 0)
		for _, item := range items {
			tt := ttByID[item.TicketTypeID]
			for range item.Quantity {
				ticket, err := MintTicket(&order, &tt, &event)
				if err != nil {
					return err
				}
				if err := tx.Create(ticket).Error; err != nil {
					return err
				}
				tickets = append(tickets, types.TicketReceipt{
					TicketNumber:     ticket.TicketNumber,
					VerificationCode: ticket.VerificationCode,
					TicketTypeName:   tt.Name,
				})
			}
		}

		for _, item := range items {
			h := holdByType[item.TicketTypeID]
			if item.Quantity == h.Quantity {
				if err := tx.Delete(&models.Hold{}, h.ID).Error; err != nil {
					return err
				}
			} else {
				if err := tx.
					Model(&models.Hold{}).
					Where("id = ?", h.ID).
					Update("quantity", gorm.Expr("quantity - ?", item.Quantity)).
					Error; err != nil {
					return err
				}
			}
		}

		receipt = &types.OrderReceipt{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			TotalCents:  order.TotalCents,
			Tickets:     tickets,
		}
		return nil
	})
	if err != nil {
		if isSettlementError(err) {
			return nil, err
		}
		log.Printf("Settlement failed for session [%s]: %s\n", in.BuyerSessionID, err.Error())
		return nil, fmt.Errorf("%w: %s", ErrSettlementAborted, err.Error())
	}
	return receipt, nil
}

// isSettlementError reports whether err is one of the recoverable,
// caller-facing rejections as opposed to an internal failure.
func isSettlementError(err error) bool {
	var insufficient *InsufficientInventoryError
	if errors.As(err, &insufficient) {
		return true
	}
	return errors.Is(err, ErrCartOutOfSync) ||
		errors.Is(err, ErrTicketTypeNotFound) ||
		errors.Is(err, ErrPromoNoLongerValid)
}
