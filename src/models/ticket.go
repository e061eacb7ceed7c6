package models

import (
	"gigtix/src/types"
	"time"
)

// Ticket is one admission unit minted at settlement. The event and
// ticket-type display fields are denormalized at mint time so later
// edits to the event never alter an already-issued ticket.
type Ticket struct {
	ID               uint               `gorm:"primarykey" json:"id"`
	OrderID          uint               `json:"order_id,omitempty"`
	TicketNumber     string             `gorm:"uniqueIndex" json:"ticket_number"`
	VerificationCode string             `json:"verification_code,omitempty"`
	TicketTypeName   string             `json:"ticket_type_name,omitempty"`
	EventTitle       string             `json:"event_title,omitempty"`
	EventDate        time.Time          `json:"event_date,omitempty"`
	AttendeeName     string             `json:"attendee_name,omitempty"`
	AttendeeEmail    string             `json:"attendee_email,omitempty"`
	Status           types.TicketStatus `gorm:"default:'VALID'" json:"status,omitempty"`

	types.Timestamps
}
