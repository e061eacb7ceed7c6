package models

import (
	"gigtix/src/types"
	"time"
)

// TicketType carries the inventory counters for one tier of one event.
// The counters are only ever mutated through the ledger's conditional
// updates, which keep quantity_sold + quantity_held <= capacity_total.
type TicketType struct {
	ID            uint    `gorm:"primarykey" json:"id"`
	EventID       uint    `json:"event_id,omitempty"`
	Name          string  `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	PriceCents    int64   `json:"price_cents"`
	CapacityTotal uint    `json:"capacity_total"`
	QuantitySold  uint    `json:"quantity_sold"`
	QuantityHeld  uint    `json:"quantity_held"`
	MaxPerOrder   uint    `gorm:"default:10" json:"max_per_order"`

	SalesStart *time.Time `json:"sales_start,omitempty"`
	SalesEnd   *time.Time `json:"sales_end,omitempty"`

	Event Event `json:"event,omitempty"`

	// Availability is filled in by handlers for API responses.
	Availability *int64 `gorm:"-" json:"available,omitempty"`

	types.Timestamps
}

func (t *TicketType) Available() int64 {
	return int64(t.CapacityTotal) - int64(t.QuantitySold) - int64(t.QuantityHeld)
}
