package common

import (
	"errors"
	"fmt"
)

var (
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrCartOutOfSync      = errors.New("cart no longer matches held inventory")

	ErrPromoNotFound      = errors.New("promo code not found")
	ErrPromoNotYetActive  = errors.New("promo code is not active yet")
	ErrPromoExpired       = errors.New("promo code has expired")
	ErrPromoUsageExceeded = errors.New("promo code usage limit reached")
	ErrPromoWrongEvent    = errors.New("promo code not valid for this event")
	ErrPromoMinimumNotMet = errors.New("order does not meet the promo code minimum purchase")
	ErrPromoNoLongerValid = errors.New("promo code is no longer valid")

	ErrSettlementAborted = errors.New("settlement aborted")
)

// InsufficientInventoryError reports how many units were actually left so
// the caller can tell the buyer "only N left".
type InsufficientInventoryError struct {
	TicketTypeID uint
	Available    int64
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for ticket type [%d]: only %d left", e.TicketTypeID, e.Available)
}

// QuantityLimitError is returned when a cart mutation asks for more units
// than the ticket type allows in a single order.
type QuantityLimitError struct {
	TicketTypeID uint
	Limit        uint
}

func (e *QuantityLimitError) Error() string {
	return fmt.Sprintf("ticket type [%d] is limited to %d per order", e.TicketTypeID, e.Limit)
}
