package models

import (
	"gigtix/src/types"
	"time"
)

type PromoCode struct {
	ID                   uint               `gorm:"primarykey" json:"id"`
	Code                 string             `gorm:"uniqueIndex" json:"code"`
	EventID              *uint              `json:"event_id,omitempty"`
	DiscountType         types.DiscountType `json:"discount_type"`
	DiscountValue        int64              `json:"discount_value"`
	UsageLimit           *uint              `json:"usage_limit,omitempty"`
	UsageCount           uint               `json:"usage_count"`
	PerCustomerLimit     uint               `gorm:"default:1" json:"per_customer_limit"`
	ValidFrom            *time.Time         `json:"valid_from,omitempty"`
	ValidUntil           *time.Time         `json:"valid_until,omitempty"`
	MinimumPurchaseCents *int64             `json:"minimum_purchase_cents,omitempty"`
	Active               bool               `gorm:"default:true" json:"active"`

	Event *Event `json:"event,omitempty"`

	types.Timestamps
}
