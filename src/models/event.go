package models

import (
	"gigtix/src/types"
	"time"
)

type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `json:"title,omitempty"`
	Slug        string            `gorm:"uniqueIndex" json:"slug,omitempty"`
	Description *string           `json:"description,omitempty"`
	VenueName   string            `json:"venue_name,omitempty"`
	StartDate   time.Time         `json:"start_date,omitempty"`
	Status      types.EventStatus `gorm:"default:'DRAFT'" json:"status,omitempty"`

	TicketTypes []TicketType `json:"ticket_types,omitempty"`

	types.Timestamps
}
