package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"gigtix/src/db"
	"gigtix/src/models"
	"gigtix/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
)

func orderHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/orders", func(ctx *gin.Context) {
			orderNumber := ctx.Query("order_number")
			email := ctx.Query("email")
			db := db.GetDb()
			if orderNumber != "" {
				var order models.Order
				if err := db.
					Where(&models.Order{OrderNumber: orderNumber}).
					Preload("Event").
					Preload("Items").
					Preload("Items.TicketType").
					Preload("Tickets").
					First(&order).
					Error; err != nil {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": order})
				return
			}
			if email != "" {
				var orders []models.Order
				if err := db.
					Where(&models.Order{CustomerEmail: email}).
					Preload("Event").
					Preload("Items").
					Order("created_at desc").
					Find(&orders).
					Error; err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusOK, gin.H{"data": orders, "count": len(orders)})
				return
			}
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing required parameters"})
		}).
		GET("/orders/:orderNumber/tickets/:ticketNumber/code", func(ctx *gin.Context) {
			orderNumber := ctx.Params.ByName("orderNumber")
			ticketNumber := ctx.Params.ByName("ticketNumber")
			db := db.GetDb()
			var order models.Order
			if err := db.
				Where(&models.Order{OrderNumber: orderNumber}).
				First(&order).
				Error; err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			var ticket models.Ticket
			if err := db.
				Where(&models.Ticket{OrderID: order.ID, TicketNumber: ticketNumber}).
				First(&ticket).
				Error; err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}

			rawData := map[string]any{
				"ticket_number":     ticket.TicketNumber,
				"verification_code": ticket.VerificationCode,
			}
			rawBytes, _ := json.Marshal(rawData)

			keyEnv := os.Getenv("API_QRC_SECRET")
			key, err := hex.DecodeString(keyEnv)
			if err != nil {
				log.Printf("Could not read key from string: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			encryptedMessage, err := utils.EncryptMessage(key, string(rawBytes))
			if err != nil {
				log.Printf("Error encrypting message: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			qrc, err := qrcode.New(encryptedMessage)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			filepath := path.Join(os.TempDir(), fmt.Sprintf("eticket_%s.jpeg", ticket.TicketNumber))
			if err := qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.FileAttachment(filepath, "eticket.jpeg")
		})
	return g
}
