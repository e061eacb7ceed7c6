package main

import (
	"errors"
	"log"
	"net/http"

	"gigtix/src/common"
	"gigtix/src/db"
	"gigtix/src/lib"
	"gigtix/src/types"

	"github.com/gin-gonic/gin"
)

func cartErrorResponse(ctx *gin.Context, err error) {
	var insufficient *common.InsufficientInventoryError
	var limit *common.QuantityLimitError
	switch {
	case errors.As(err, &insufficient):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":     insufficient.Error(),
			"available": insufficient.Available,
		})
	case errors.As(err, &limit):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": limit.Error(), "limit": limit.Limit})
	case errors.Is(err, common.ErrTicketTypeNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("Cart error: %s\n", err.Error())
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
	}
}

func cartHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/cart", func(ctx *gin.Context) {
			sessionID := ctx.GetString("session_id")
			snapshot, err := common.GetCart(db.GetDb(), sessionID)
			if err != nil {
				log.Printf("Error reading cart: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": snapshot})
		}).
		PUT("/cart/items", func(ctx *gin.Context) {
			var body types.UpdateCartItemRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			sessionID := ctx.GetString("session_id")
			snapshot, err := common.AddOrUpdateCartItem(db.GetDb(), common.GetLedger(), sessionID, body.TicketTypeID, body.Quantity)
			if err != nil {
				cartErrorResponse(ctx, err)
				return
			}
			lib.InvalidateAvailability(body.TicketTypeID)
			ctx.JSON(http.StatusOK, gin.H{"data": snapshot})
		}).
		DELETE("/cart", func(ctx *gin.Context) {
			sessionID := ctx.GetString("session_id")
			snapshot, err := common.GetCart(db.GetDb(), sessionID)
			if err == nil && snapshot != nil {
				ids := make([]uint, 0, len(snapshot.Items))
				for _, item := range snapshot.Items {
					ids = append(ids, item.TicketTypeID)
				}
				defer lib.InvalidateAvailability(ids...)
			}
			if err := common.ClearCart(db.GetDb(), common.GetLedger(), sessionID); err != nil {
				log.Printf("Error clearing cart: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
