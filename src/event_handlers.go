package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"gigtix/src/config"
	"gigtix/src/db"
	"gigtix/src/lib"
	"gigtix/src/models"
	"gigtix/src/types"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// fillAvailability decorates ticket types with their live availability,
// preferring the redis snapshot over a recount.
func fillAvailability(tts []models.TicketType) {
	for i := range tts {
		tt := &tts[i]
		if cached, ok := lib.CachedAvailability(tt.ID); ok {
			tt.Availability = &cached
			continue
		}
		available := tt.Available()
		tt.Availability = &available
		lib.CacheAvailability(tt.ID, available)
	}
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var events []models.Event
			db := db.GetDb()
			if err := db.
				Where(&models.Event{Status: types.EVENT_PUBLISHED}).
				Preload("TicketTypes").
				Order("start_date asc").
				Find(&events).
				Error; err != nil {
				log.Printf("Error retrieving Events: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			for i := range events {
				fillAvailability(events[i].TicketTypes)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var event models.Event
			db := db.GetDb()
			if err := db.
				Where(&models.Event{ID: params.ID}).
				Preload("TicketTypes").
				First(&event).
				Error; err != nil {
				err := errors.New("event not found")
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			fillAvailability(event.TicketTypes)
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		}).
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			startDate, err := time.Parse(config.TIME_PARSE_FORMAT, body.StartDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event := models.Event{
				Title:       body.Title,
				Slug:        slug.Make(body.Title),
				Description: body.Description,
				VenueName:   body.VenueName,
				StartDate:   startDate,
				Status:      types.EVENT_PUBLISHED,
			}
			db := db.GetDb()
			err = db.Transaction(func(tx *gorm.DB) error {
				var existing int64
				if err := tx.
					Model(&models.Event{}).
					Where("slug = ?", event.Slug).
					Count(&existing).
					Error; err != nil {
					return err
				}
				if existing > 0 {
					event.Slug = fmt.Sprintf("%s-%d", event.Slug, time.Now().Unix())
				}
				for _, tt := range body.TicketTypes {
					ticketType := models.TicketType{
						Name:          tt.Name,
						Description:   tt.Description,
						PriceCents:    tt.PriceCents,
						CapacityTotal: tt.CapacityTotal,
						MaxPerOrder:   tt.MaxPerOrder,
					}
					if tt.SalesStart != nil {
						t, err := time.Parse(config.TIME_PARSE_FORMAT, *tt.SalesStart)
						if err != nil {
							return err
						}
						ticketType.SalesStart = &t
					}
					if tt.SalesEnd != nil {
						t, err := time.Parse(config.TIME_PARSE_FORMAT, *tt.SalesEnd)
						if err != nil {
							return err
						}
						ticketType.SalesEnd = &t
					}
					event.TicketTypes = append(event.TicketTypes, ticketType)
				}
				return tx.Create(&event).Error
			})
			if err != nil {
				log.Printf("Error creating event: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": event.ID, "slug": event.Slug})
		})
	return g
}
