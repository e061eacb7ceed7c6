package common

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"gigtix/src/config"
	"gigtix/src/models"
	"gigtix/src/types"
)

// GenerateTicketNumber draws 8 bytes from a cryptographically strong source.
// A counter would leak order sizes and collide under concurrent minting.
func GenerateTicketNumber() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// VerificationCode derives the code presented at the gate from the ticket
// number and a server-side secret. Without the secret, seeing a ticket
// number is not enough to forge its code.
func VerificationCode(ticketNumber string) string {
	mac := hmac.New(sha256.New, config.TicketSecret())
	mac.Write([]byte(ticketNumber))
	return hex.EncodeToString(mac.Sum(nil))
}

// MintTicket builds one admission unit for an order. Display fields are
// copied from the event and ticket type at mint time.
func MintTicket(order *models.Order, tt *models.TicketType, event *models.Event) (*models.Ticket, error) {
	number, err := GenerateTicketNumber()
	if err != nil {
		return nil, err
	}
	return &models.Ticket{
		OrderID:          order.ID,
		TicketNumber:     number,
		VerificationCode: VerificationCode(number),
		TicketTypeName:   tt.Name,
		EventTitle:       event.Title,
		EventDate:        event.StartDate,
		AttendeeName:     order.CustomerName,
		AttendeeEmail:    order.CustomerEmail,
		Status:           types.TICKET_VALID,
	}, nil
}
