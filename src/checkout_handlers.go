package main

import (
	"errors"
	"net/http"

	"gigtix/src/common"
	"gigtix/src/db"
	"gigtix/src/lib"
	"gigtix/src/lib/mailer"
	"gigtix/src/types"

	"github.com/gin-gonic/gin"
)

func checkoutHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/checkout", func(ctx *gin.Context) {
			var body types.CheckoutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sessionID := ctx.GetString("session_id")
			input := &common.SettlementInput{
				BuyerSessionID: sessionID,
				Items:          body.Items,
				PromoCode:      body.PromoCode,
				CustomerName:   body.CustomerName,
				CustomerEmail:  body.CustomerEmail,
				CustomerPhone:  body.CustomerPhone,
				BillingAddress: body.BillingAddress,
			}
			receipt, err := common.SettleOrder(db.GetDb(), common.GetLedger(), input)
			if err != nil {
				var insufficient *common.InsufficientInventoryError
				switch {
				case errors.As(err, &insufficient):
					ctx.JSON(http.StatusConflict, gin.H{
						"error":     insufficient.Error(),
						"available": insufficient.Available,
					})
				case errors.Is(err, common.ErrCartOutOfSync):
					ctx.JSON(http.StatusConflict, gin.H{"error": "Your cart has changed or expired, please review it and try again"})
				case errors.Is(err, common.ErrPromoNoLongerValid):
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				case errors.Is(err, common.ErrTicketTypeNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				default:
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
				}
				return
			}
			ids := make([]uint, 0, len(body.Items))
			for _, item := range body.Items {
				ids = append(ids, item.TicketTypeID)
			}
			lib.InvalidateAvailability(ids...)
			go mailer.SendOrderConfirmation(body.CustomerEmail, receipt)
			ctx.JSON(http.StatusCreated, gin.H{
				"success":      true,
				"order_number": receipt.OrderNumber,
				"order_id":     receipt.OrderID,
				"total_cents":  receipt.TotalCents,
				"tickets":      receipt.Tickets,
			})
		})
	return g
}
