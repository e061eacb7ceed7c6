package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type EventStatus string
type OrderStatus string
type TicketStatus string
type DiscountType string

const (
	EVENT_DRAFT     EventStatus = "DRAFT"
	EVENT_PUBLISHED EventStatus = "PUBLISHED"
	EVENT_CANCELED  EventStatus = "CANCELLED"
	EVENT_COMPLETED EventStatus = "COMPLETED"

	ORDER_PENDING   OrderStatus = "PENDING"
	ORDER_COMPLETED OrderStatus = "COMPLETED"
	ORDER_CANCELED  OrderStatus = "CANCELLED"
	ORDER_REFUNDED  OrderStatus = "REFUNDED"

	TICKET_VALID TicketStatus = "VALID"
	TICKET_USED  TicketStatus = "USED"
	TICKET_VOID  TicketStatus = "VOID"

	DISCOUNT_PERCENTAGE   DiscountType = "PERCENTAGE"
	DISCOUNT_FIXED_AMOUNT DiscountType = "FIXED_AMOUNT"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type UpdateCartItemRequestBody struct {
	TicketTypeID uint `json:"ticket_type_id" binding:"required"`
	Quantity     uint `json:"quantity"`
}

type CheckoutItem struct {
	TicketTypeID uint `json:"ticket_type_id" binding:"required"`
	Quantity     uint `json:"quantity" binding:"required,gt=0"`
}

type CheckoutRequestBody struct {
	Items          []CheckoutItem `json:"items" binding:"required,min=1,dive"`
	PromoCode      *string        `json:"promo_code"`
	CustomerName   string         `json:"customer_name" binding:"required"`
	CustomerEmail  string         `json:"customer_email" binding:"required,email"`
	CustomerPhone  *string        `json:"customer_phone"`
	BillingAddress *JSONB         `json:"billing_address"`

	// Client-side totals are advisory only; settlement recomputes
	// every amount server-side and ignores these.
	ClientTotalCents *int64 `json:"total_amount"`
}

type CreateTicketTypeRequestBody struct {
	Name          string  `json:"name" binding:"required"`
	Description   *string `json:"description"`
	PriceCents    int64   `json:"price_cents" binding:"gte=0"`
	CapacityTotal uint    `json:"capacity_total" binding:"required,gt=0"`
	MaxPerOrder   uint    `json:"max_per_order"`
	SalesStart    *string `json:"sales_start"`
	SalesEnd      *string `json:"sales_end"`
}

type CreateEventRequestBody struct {
	Title       string                        `json:"title" binding:"required"`
	Description *string                       `json:"description"`
	VenueName   string                        `json:"venue_name"`
	StartDate   string                        `json:"start_date" binding:"required,sellabledate"`
	TicketTypes []CreateTicketTypeRequestBody `json:"ticket_types" binding:"dive"`
}

type CreatePromoCodeRequestBody struct {
	Code                 string       `json:"code" binding:"required"`
	EventID              *uint        `json:"event_id"`
	DiscountType         DiscountType `json:"discount_type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	DiscountValue        int64        `json:"discount_value" binding:"required,gt=0"`
	UsageLimit           *uint        `json:"usage_limit"`
	PerCustomerLimit     *uint        `json:"per_customer_limit"`
	ValidFrom            *string      `json:"valid_from"`
	ValidUntil           *string      `json:"valid_until"`
	MinimumPurchaseCents *int64       `json:"minimum_purchase_cents"`
}

type CartItemSnapshot struct {
	TicketTypeID   uint      `json:"ticket_type_id"`
	TicketTypeName string    `json:"ticket_type_name"`
	Quantity       uint      `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	SubtotalCents  int64     `json:"subtotal_cents"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type CartSnapshot struct {
	EventID       *uint              `json:"event_id,omitempty"`
	Items         []CartItemSnapshot `json:"items"`
	SubtotalCents int64              `json:"subtotal_cents"`
	ExpiresAt     *time.Time         `json:"expires_at,omitempty"`
}

type TicketReceipt struct {
	TicketNumber     string `json:"ticket_number"`
	VerificationCode string `json:"verification_code"`
	TicketTypeName   string `json:"ticket_type_name"`
}

type OrderReceipt struct {
	OrderID     uint            `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	TotalCents  int64           `json:"total_cents"`
	Tickets     []TicketReceipt `json:"tickets"`
}
