// Package payments creates checkout sessions on an external payment gateway
// and validates what the gateway echoes back on redirect.
package payments

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayTimeout     = errors.New("payment gateway timed out")
)

// LineItem is one priced row of a checkout. UnitAmount is in the currency's
// smallest unit (paise for INR).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int
}

type Customer struct {
	Name  string
	Email string
	Phone string
}

type CheckoutRequest struct {
	OrderID   string
	Currency  string
	LineItems []LineItem
	Customer  Customer
	// SuccessURL and CancelURL are where the shopper lands afterwards.
	SuccessURL string
	CancelURL  string
	// CallbackURL is hit by the gateway itself when it supports a server
	// callback; empty means redirect straight to SuccessURL.
	CallbackURL string
}

// Total is the sum of all line items in minor units.
func (r CheckoutRequest) Total() int64 {
	var total int64
	for _, item := range r.LineItems {
		total += item.UnitAmount * int64(item.Quantity)
	}
	return total
}

// Session is the gateway's pending checkout. Only URL matters to callers.
type Session struct {
	ID  string
	URL string
}

type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
}

// MinorUnits converts a decimal amount to the smallest currency unit.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
