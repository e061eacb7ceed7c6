package models

import "time"

// Hold is one buyer's provisional claim on N units of a ticket type.
// Rows are owned by the reservation manager; settlement deletes them
// when the claim converts to a sale, the sweep deletes them on expiry.
// Holds are ephemeral and deleted for real, no soft-delete column, so
// the (session, ticket type) pair can be re-held after a removal.
type Hold struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	BuyerSessionID string    `gorm:"uniqueIndex:idx_holds_session_type;index" json:"-"`
	TicketTypeID   uint      `gorm:"uniqueIndex:idx_holds_session_type" json:"ticket_type_id"`
	EventID        uint      `json:"event_id"`
	Quantity       uint      `json:"quantity"`
	ExpiresAt      time.Time `gorm:"index" json:"expires_at"`

	TicketType TicketType `json:"ticket_type,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
}
