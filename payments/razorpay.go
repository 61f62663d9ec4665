package payments

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog"
)

// Razorpay allows at most 15 note keys per entity.
const maxNotes = 15

type paymentLinkCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway implements checkout sessions as Razorpay payment links.
type RazorpayGateway struct {
	links  paymentLinkCreator
	logger zerolog.Logger
}

func NewRazorpayGateway(keyID, keySecret string, logger zerolog.Logger) *RazorpayGateway {
	client := razorpay.NewClient(keyID, keySecret)
	return &RazorpayGateway{
		links:  client.PaymentLink,
		logger: logger.With().Str("component", "razorpay").Logger(),
	}
}

type createResult struct {
	body map[string]interface{}
	err  error
}

// CreateCheckoutSession blocks until Razorpay answers or ctx is done.
func (g *RazorpayGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error) {
	payload := paymentLinkPayload(req)

	done := make(chan createResult, 1)
	go func() {
		body, err := g.links.Create(payload, nil)
		done <- createResult{body: body, err: err}
	}()

	var res createResult
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("create payment link for order %s: %w", req.OrderID, ErrGatewayTimeout)
		}
		return nil, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		g.logger.Error().Err(res.err).Str("order_id", req.OrderID).Msg("payment link create failed")
		return nil, fmt.Errorf("create payment link for order %s: %v: %w", req.OrderID, res.err, ErrGatewayUnavailable)
	}

	id, _ := res.body["id"].(string)
	url, _ := res.body["short_url"].(string)
	if url == "" {
		return nil, fmt.Errorf("payment link for order %s has no short_url: %w", req.OrderID, ErrGatewayUnavailable)
	}
	return &Session{ID: id, URL: url}, nil
}

func paymentLinkPayload(req CheckoutRequest) map[string]interface{} {
	callback := req.CallbackURL
	if callback == "" {
		callback = req.SuccessURL
	}

	payload := map[string]interface{}{
		"amount":          req.Total(),
		"currency":        req.Currency,
		"accept_partial":  false,
		"reference_id":    req.OrderID,
		"description":     "Food order " + req.OrderID,
		"notes":           lineItemNotes(req.LineItems),
		"callback_url":    callback,
		"callback_method": "get",
		"reminder_enable": false,
		"notify": map[string]interface{}{
			"sms":   false,
			"email": false,
		},
	}

	customer := map[string]interface{}{}
	if req.Customer.Name != "" {
		customer["name"] = req.Customer.Name
	}
	if req.Customer.Email != "" {
		customer["email"] = req.Customer.Email
	}
	if req.Customer.Phone != "" {
		customer["contact"] = req.Customer.Phone
	}
	if len(customer) > 0 {
		payload["customer"] = customer
	}
	return payload
}

// lineItemNotes describes the line items in Razorpay notes, folding the
// overflow into the last key.
func lineItemNotes(items []LineItem) map[string]interface{} {
	notes := make(map[string]interface{}, len(items))
	for i, item := range items {
		if i == maxNotes-1 && len(items) > maxNotes {
			notes[fmt.Sprintf("item_%d", i+1)] = fmt.Sprintf("%d more items", len(items)-i)
			break
		}
		notes[fmt.Sprintf("item_%d", i+1)] = fmt.Sprintf("%s x%d @ %d", item.Name, item.Quantity, item.UnitAmount)
	}
	return notes
}
