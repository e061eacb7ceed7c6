package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// Order pricing. Rates are in basis points so the math stays integer-only.
const (
	SERVICE_FEE_RATE_BPS   = 250 // 2.5% of the items subtotal
	SERVICE_FEE_FLAT_CENTS = 99
	TAX_RATE_BPS           = 800 // 8% of subtotal + fees
)

const defaultHoldTTL = 30 * time.Minute

// HoldTTL returns how long a cart hold stays valid after its last mutation.
func HoldTTL() time.Duration {
	v := os.Getenv("CART_HOLD_TTL")
	if v == "" {
		return defaultHoldTTL
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultHoldTTL
	}
	return d
}

// TicketSecret is the server-side key for deriving ticket verification codes.
func TicketSecret() []byte {
	return []byte(os.Getenv("API_TICKET_SECRET"))
}
