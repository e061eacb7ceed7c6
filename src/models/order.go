package models

import "gigtix/src/types"

// Order is immutable once its status reaches COMPLETED. All amounts are
// integer cents computed server-side at settlement.
type Order struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	OrderNumber string            `gorm:"uniqueIndex" json:"order_number"`
	EventID     uint              `json:"event_id,omitempty"`
	Status      types.OrderStatus `gorm:"default:'PENDING'" json:"status,omitempty"`

	ItemsSubtotalCents int64 `json:"items_subtotal_cents"`
	DiscountCents      int64 `json:"discount_cents"`
	FeesCents          int64 `json:"fees_cents"`
	TaxCents           int64 `json:"tax_cents"`
	TotalCents         int64 `json:"total_cents"`

	CustomerName   string       `json:"customer_name,omitempty"`
	CustomerEmail  string       `gorm:"index" json:"customer_email,omitempty"`
	CustomerPhone  *string      `json:"customer_phone,omitempty"`
	BillingAddress *types.JSONB `gorm:"type:jsonb" json:"billing_address,omitempty"`
	PromoCode      *string      `json:"promo_code,omitempty"`

	Event   Event       `json:"event,omitempty"`
	Items   []OrderItem `json:"items,omitempty"`
	Tickets []Ticket    `json:"tickets,omitempty"`

	types.Timestamps
}

type OrderItem struct {
	ID                uint  `gorm:"primarykey" json:"id"`
	OrderID           uint  `json:"order_id,omitempty"`
	TicketTypeID      uint  `json:"ticket_type_id,omitempty"`
	Quantity          uint  `json:"quantity"`
	PricePerItemCents int64 `json:"price_per_item_cents"`
	SubtotalCents     int64 `json:"subtotal_cents"`

	TicketType TicketType `json:"ticket_type,omitempty"`

	types.Timestamps
}
