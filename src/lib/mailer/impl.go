package mailer

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gigtix/src/lib"
	"gigtix/src/types"

	"github.com/wneessen/go-mail"
)

// SendOrderConfirmation emails the buyer their order number and ticket
// codes. Delivery is best effort: settlement has already committed, so a
// mail failure is logged and swallowed.
func SendOrderConfirmation(to string, receipt *types.OrderReceipt) {
	from := os.Getenv("MAIL_FROM")
	if from == "" || os.Getenv("SMTP_HOST") == "" {
		log.Printf("Mailer not configured, skipping confirmation for order %s\n", receipt.OrderNumber)
		return
	}
	client, err := lib.GetSMTPClient()
	if err != nil {
		return
	}
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		log.Printf("Invalid sender address [%s]: %s\n", from, err.Error())
		return
	}
	if err := msg.To(to); err != nil {
		log.Printf("Invalid recipient address [%s]: %s\n", to, err.Error())
		return
	}
	msg.Subject(fmt.Sprintf("Your tickets for order %s", receipt.OrderNumber))
	var body strings.Builder
	fmt.Fprintf(&body, "Thanks for your purchase!\n\nOrder number: %s\nTotal: $%.2f\n\nYour tickets:\n", receipt.OrderNumber, float64(receipt.TotalCents)/100)
	for _, t := range receipt.Tickets {
		fmt.Fprintf(&body, "  %s - %s\n", t.TicketTypeName, t.TicketNumber)
	}
	msg.SetBodyString(mail.TypeTextPlain, body.String())
	if err := client.DialAndSend(msg); err != nil {
		log.Printf("Error sending confirmation for order %s: %s\n", receipt.OrderNumber, err.Error())
	}
}
