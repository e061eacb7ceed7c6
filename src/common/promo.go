package common

import (
	"errors"
	"strings"
	"time"

	"gigtix/src/models"
	"gigtix/src/types"

	"gorm.io/gorm"
)

// PromoDecision is the successful outcome of validating a code. It carries
// everything settlement needs without consuming a usage slot; slots are
// only consumed by ConsumePromoCode inside the settlement transaction.
type PromoDecision struct {
	PromoID          uint
	Code             string
	DiscountType     types.DiscountType
	DiscountValue    int64
	PerCustomerLimit uint
}

// NormalizePromoCode case-normalizes a code the way they are stored.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidatePromoCode checks a code against its activation flag, time window,
// usage counters, event scope and minimum purchase, in that order, stopping
// at the first failure.
func ValidatePromoCode(tx *gorm.DB, code string, eventID uint, subtotalCents int64, now time.Time) (*PromoDecision, error) {
	var promo models.PromoCode
	err := tx.Where(&models.PromoCode{Code: NormalizePromoCode(code)}).First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, err
	}
	if !promo.Active {
		return nil, ErrPromoNotFound
	}
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return nil, ErrPromoNotYetActive
	}
	if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
		return nil, ErrPromoExpired
	}
	if promo.UsageLimit != nil && promo.UsageCount >= *promo.UsageLimit {
		return nil, ErrPromoUsageExceeded
	}
	if promo.EventID != nil && *promo.EventID != eventID {
		return nil, ErrPromoWrongEvent
	}
	if promo.MinimumPurchaseCents != nil && subtotalCents < *promo.MinimumPurchaseCents {
		return nil, ErrPromoMinimumNotMet
	}
	return &PromoDecision{
		PromoID:          promo.ID,
		Code:             promo.Code,
		DiscountType:     promo.DiscountType,
		DiscountValue:    promo.DiscountValue,
		PerCustomerLimit: promo.PerCustomerLimit,
	}, nil
}

// ComputeDiscount turns a decision into an amount in cents. Percentage
// discounts round to the nearest cent; fixed discounts never exceed the
// subtotal so the total can never go negative from a promo alone.
func ComputeDiscount(d *PromoDecision, subtotalCents int64) int64 {
	switch d.DiscountType {
	case types.DISCOUNT_PERCENTAGE:
		return (subtotalCents*d.DiscountValue + 50) / 100
	case types.DISCOUNT_FIXED_AMOUNT:
		if d.DiscountValue > subtotalCents {
			return subtotalCents
		}
		return d.DiscountValue
	default:
		return 0
	}
}

// ConsumePromoCode increments usage_count, guarded against the limit in the
// same statement so concurrent settlements cannot push a code past its
// usage_limit. Callers run this inside the settlement transaction.
func ConsumePromoCode(tx *gorm.DB, promoID uint) error {
	res := tx.
		Model(&models.PromoCode{}).
		Where("id = ?", promoID).
		Where("usage_limit IS NULL OR usage_count < usage_limit").
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPromoUsageExceeded
	}
	return nil
}
