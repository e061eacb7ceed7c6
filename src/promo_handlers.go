package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"gigtix/src/common"
	"gigtix/src/config"
	"gigtix/src/db"
	"gigtix/src/models"
	"gigtix/src/types"

	"github.com/gin-gonic/gin"
)

func promoErrorResponse(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrPromoNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrPromoNotYetActive),
		errors.Is(err, common.ErrPromoExpired),
		errors.Is(err, common.ErrPromoUsageExceeded),
		errors.Is(err, common.ErrPromoWrongEvent),
		errors.Is(err, common.ErrPromoMinimumNotMet):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Promo validation error: %s\n", err.Error())
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
	}
}

func promoHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		// Cart-time validation: advisory only, settlement re-validates and
		// is the only place a usage slot gets consumed.
		GET("/promo-codes/validate", func(ctx *gin.Context) {
			code := ctx.Query("code")
			if code == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
				return
			}
			eventIDParam := ctx.Query("event_id")
			eventID, err := strconv.Atoi(eventIDParam)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_id"})
				return
			}
			sessionID := ctx.GetString("session_id")
			snapshot, err := common.GetCart(db.GetDb(), sessionID)
			if err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			decision, err := common.ValidatePromoCode(db.GetDb(), code, uint(eventID), snapshot.SubtotalCents, time.Now())
			if err != nil {
				promoErrorResponse(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"valid":          true,
				"code":           decision.Code,
				"discount_type":  decision.DiscountType,
				"discount_value": decision.DiscountValue,
				"discount_cents": common.ComputeDiscount(decision, snapshot.SubtotalCents),
			})
		}).
		POST("/promo-codes", func(ctx *gin.Context) {
			var body types.CreatePromoCodeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			promo := models.PromoCode{
				Code:                 common.NormalizePromoCode(body.Code),
				EventID:              body.EventID,
				DiscountType:         body.DiscountType,
				DiscountValue:        body.DiscountValue,
				UsageLimit:           body.UsageLimit,
				MinimumPurchaseCents: body.MinimumPurchaseCents,
				Active:               true,
			}
			if body.PerCustomerLimit != nil {
				promo.PerCustomerLimit = *body.PerCustomerLimit
			} else {
				promo.PerCustomerLimit = 1
			}
			if body.ValidFrom != nil {
				t, err := time.Parse(config.TIME_PARSE_FORMAT, *body.ValidFrom)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				promo.ValidFrom = &t
			}
			if body.ValidUntil != nil {
				t, err := time.Parse(config.TIME_PARSE_FORMAT, *body.ValidUntil)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				promo.ValidUntil = &t
			}
			db := db.GetDb()
			var existing int64
			if err := db.
				Model(&models.PromoCode{}).
				Where("code = ?", promo.Code).
				Count(&existing).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if existing > 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "promo code already exists"})
				return
			}
			if err := db.Create(&promo).Error; err != nil {
				log.Printf("Error creating promo code: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": promo.ID, "code": promo.Code})
		})
	return g
}
