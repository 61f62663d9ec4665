package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/aryanwebd35/food-factory/metrics"
	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/payments"
	"github.com/aryanwebd35/food-factory/repositories"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var emailRegex = regexp.MustCompile(`^(([^<>()[\]\.,;:\s@\"]+(\.[^<>()[\]\.,;:\s@\"]+)*)|(\".+\"))@(([^<>()[\]\.,;:\s@\"]+\.)+[^<>()[\]\.,;:\s@\"]{2,})$`)

type OrderConfig struct {
	Currency       string
	DeliveryCharge decimal.Decimal
	// FrontendURL receives the shopper after checkout, PublicURL is this API.
	FrontendURL             string
	PublicURL               string
	GatewayTimeout          time.Duration
	StrictStatusTransitions bool
	RequirePaymentSignature bool
	GatewaySecret           string
}

// ItemRequest is an item as the storefront sends it. Only the id and the
// quantity are trusted; name and price come from the catalog.
type ItemRequest struct {
	ID       string `json:"_id"`
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

func (r ItemRequest) Key() string {
	if r.ItemID != "" {
		return r.ItemID
	}
	return r.ID
}

type PlaceOrderInput struct {
	Items   []ItemRequest
	Amount  decimal.Decimal
	Address models.Address
}

// OrderService drives an order from the cart through payment to delivery.
type OrderService struct {
	orders  repositories.OrderRepository
	carts   repositories.CartRepository
	foods   repositories.FoodRepository
	gateway payments.Gateway
	cfg     OrderConfig
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewOrderService(
	orders repositories.OrderRepository,
	carts repositories.CartRepository,
	foods repositories.FoodRepository,
	gateway payments.Gateway,
	cfg OrderConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *OrderService {
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = 10 * time.Second
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if m == nil {
		m = metrics.New()
	}
	return &OrderService{
		orders:  orders,
		carts:   carts,
		foods:   foods,
		gateway: gateway,
		cfg:     cfg,
		metrics: m,
		logger:  logger.With().Str("component", "orders").Logger(),
		now:     time.Now,
	}
}

// DeliveryCharge is the fixed surcharge added to every order.
func (s *OrderService) DeliveryCharge() decimal.Decimal {
	return s.cfg.DeliveryCharge
}

// PlaceOnline stores an unpaid order, clears the cart and opens a checkout
// session. It returns the order and the URL the shopper must be sent to.
func (s *OrderService) PlaceOnline(ctx context.Context, userID string, in PlaceOrderInput) (*models.Order, string, error) {
	order, previous, err := s.place(ctx, userID, in, models.PaymentOnline)
	if err != nil {
		return nil, "", err
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()

	session, err := s.gateway.CreateCheckoutSession(gwCtx, s.checkoutRequest(order))
	if err != nil {
		s.metrics.GatewayErrors.Inc()
		s.logger.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("checkout session failed")
		s.restoreCart(ctx, userID, previous)
		return nil, "", fmt.Errorf("create checkout session: %w", err)
	}

	s.logger.Info().Str("order_id", order.ID.Hex()).Str("session_id", session.ID).Msg("checkout session created")
	return order, session.URL, nil
}

// PlaceCod stores a cash-on-delivery order, which counts as paid.
func (s *OrderService) PlaceCod(ctx context.Context, userID string, in PlaceOrderInput) (*models.Order, error) {
	order, _, err := s.place(ctx, userID, in, models.PaymentCOD)
	return order, err
}

// place validates the input, persists the order and clears the cart. Clearing
// is compensated by deleting the order again, so either both happen or neither.
func (s *OrderService) place(ctx context.Context, userID string, in PlaceOrderInput, method models.PaymentMethod) (*models.Order, models.CartData, error) {
	if err := validateAddress(in.Address); err != nil {
		return nil, nil, err
	}
	items, err := s.snapshot(ctx, in.Items)
	if err != nil {
		return nil, nil, err
	}
	total := models.Subtotal(items).Add(s.cfg.DeliveryCharge)
	if !in.Amount.Equal(total) {
		return nil, nil, fmt.Errorf("got %s, want %s: %w", in.Amount.String(), total.String(), ErrAmountMismatch)
	}

	previous, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("read cart: %w", err)
	}

	order := &models.Order{
		UserID:        userID,
		Items:         items,
		Amount:        total,
		Address:       in.Address,
		Status:        models.StatusFoodProcessing,
		Payment:       method == models.PaymentCOD,
		PaymentMethod: method,
		Date:          s.now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("save order: %w", err)
	}

	if err := s.carts.Replace(ctx, userID, models.CartData{}); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("cart not cleared")
		s.compensate(ctx, "delete_order", func(ctx context.Context) error {
			return s.orders.Delete(ctx, order.ID.Hex())
		})
		return nil, nil, fmt.Errorf("clear cart: %w", err)
	}

	s.metrics.OrdersPlaced.WithLabelValues(string(method)).Inc()
	s.logger.Info().Str("order_id", order.ID.Hex()).Str("user_id", userID).Str("method", string(method)).
		Str("amount", total.String()).Msg("order placed")
	return order, previous, nil
}

// restoreCart gives the shopper their cart back after the checkout could not
// start. The order itself stays unpaid until ReapStale removes it.
func (s *OrderService) restoreCart(ctx context.Context, userID string, previous models.CartData) {
	s.compensate(ctx, "restore_cart", func(ctx context.Context) error {
		return s.carts.Replace(ctx, userID, previous)
	})
}

// compensate runs fn detached from the request, whose context may already be
// cancelled or past its deadline.
func (s *OrderService) compensate(ctx context.Context, action string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		s.metrics.Compensations.WithLabelValues(action, "failed").Inc()
		s.logger.Error().Err(err).Str("action", action).Msg("compensation failed")
		return
	}
	s.metrics.Compensations.WithLabelValues(action, "ok").Inc()
}

// snapshot copies name and price of every requested item from the catalog.
func (s *OrderService) snapshot(ctx context.Context, requested []ItemRequest) ([]models.OrderItem, error) {
	if len(requested) == 0 {
		return nil, ErrEmptyCart
	}
	items := make([]models.OrderItem, 0, len(requested))
	for _, req := range requested {
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("item %s: %w", req.Key(), ErrInvalidQuantity)
		}
		food, err := s.foods.FindByID(ctx, req.Key())
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("item %s: %w", req.Key(), ErrItemNotFound)
			}
			return nil, fmt.Errorf("look up item %s: %w", req.Key(), err)
		}
		items = append(items, models.OrderItem{
			ItemID:   food.ID.Hex(),
			Name:     food.Name,
			Price:    food.Price,
			Quantity: req.Quantity,
		})
	}
	return items, nil
}

func validateAddress(a models.Address) error {
	required := []struct{ field, value string }{
		{"firstName", a.FirstName},
		{"lastName", a.LastName},
		{"email", a.Email},
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zipcode", a.Zipcode},
		{"country", a.Country},
		{"phone", a.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required: %w", r.field, ErrInvalidAddress)
		}
	}
	if !emailRegex.MatchString(a.Email) {
		return fmt.Errorf("%w: %w", ErrInvalidAddress, ErrInvalidEmail)
	}
	return nil
}

func (s *OrderService) checkoutRequest(order *models.Order) payments.CheckoutRequest {
	id := order.ID.Hex()
	lines := make([]payments.LineItem, 0, len(order.Items)+1)
	for _, item := range order.Items {
		lines = append(lines, payments.LineItem{
			Name:       item.Name,
			UnitAmount: payments.MinorUnits(item.Price),
			Quantity:   item.Quantity,
		})
	}
	if s.cfg.DeliveryCharge.IsPositive() {
		lines = append(lines, payments.LineItem{
			Name:       "Delivery Charge",
			UnitAmount: payments.MinorUnits(s.cfg.DeliveryCharge),
			Quantity:   1,
		})
	}

	req := payments.CheckoutRequest{
		OrderID:   id,
		Currency:  s.cfg.Currency,
		LineItems: lines,
		Customer: payments.Customer{
			Name:  strings.TrimSpace(order.Address.FirstName + " " + order.Address.LastName),
			Email: order.Address.Email,
			Phone: order.Address.Phone,
		},
		SuccessURL: s.RedirectURL(id, true),
		CancelURL:  s.RedirectURL(id, false),
	}
	if s.cfg.PublicURL != "" {
		req.CallbackURL = s.cfg.PublicURL + "/api/order/callback?orderId=" + url.QueryEscape(id)
	}
	return req
}

// RedirectURL is the storefront page that finishes the checkout round trip.
func (s *OrderService) RedirectURL(orderID string, success bool) string {
	q := url.Values{}
	q.Set("success", fmt.Sprint(success))
	q.Set("orderId", orderID)
	return s.cfg.FrontendURL + "/verify?" + q.Encode()
}

// VerifyPayment settles or discards an online order once the shopper comes
// back from the gateway. With a signed proof the gateway's status decides;
// otherwise success is taken as given, unless signatures are required, in
// which case an unsigned success only reports the stored payment flag. It
// reports whether the order is paid.
func (s *OrderService) VerifyPayment(ctx context.Context, orderID string, success bool, proof payments.PaymentProof) (bool, error) {
	switch {
	case proof.Present():
		if proof.ReferenceID != orderID || !payments.VerifyPaymentLinkSignature(s.cfg.GatewaySecret, proof) {
			s.metrics.PaymentsVerified.WithLabelValues("bad_signature").Inc()
			return false, ErrInvalidSignature
		}
		success = proof.Paid()
	case success && s.cfg.RequirePaymentSignature:
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return false, s.orderErr(orderID, err)
		}
		if order.Payment {
			return true, nil
		}
		s.metrics.PaymentsVerified.WithLabelValues("bad_signature").Inc()
		return false, fmt.Errorf("unsigned confirmation: %w", ErrInvalidSignature)
	}

	if success {
		if err := s.orders.SetPayment(ctx, orderID, true); err != nil {
			return false, s.orderErr(orderID, err)
		}
		s.metrics.PaymentsVerified.WithLabelValues("paid").Inc()
		s.logger.Info().Str("order_id", orderID).Msg("payment confirmed")
		return true, nil
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return false, s.orderErr(orderID, err)
	}
	if order.Payment {
		return true, fmt.Errorf("order %s: %w", orderID, ErrOrderAlreadyPaid)
	}
	if err := s.orders.Delete(ctx, orderID); err != nil {
		return false, s.orderErr(orderID, err)
	}
	s.metrics.PaymentsVerified.WithLabelValues("failed").Inc()
	s.logger.Info().Str("order_id", orderID).Msg("unpaid order discarded")
	return false, nil
}

// UpdateStatus sets the fulfilment status. With strict transitions enabled
// the status may only move forward.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}
	if s.cfg.StrictStatusTransitions {
		order, err := s.orders.FindByID(ctx, orderID)
		if err != nil {
			return s.orderErr(orderID, err)
		}
		if !order.Status.CanMoveTo(status) {
			return fmt.Errorf("%s -> %s: %w", order.Status, status, ErrInvalidTransition)
		}
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return s.orderErr(orderID, err)
	}
	return nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ReapStale deletes online orders that stayed unpaid for longer than olderThan.
func (s *OrderService) ReapStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-olderThan)
	n, err := s.orders.DeleteUnpaidBefore(ctx, models.PaymentOnline, cutoff)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("stale orders reaped")
	return n, nil
}

func (s *OrderService) orderErr(orderID string, err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
	}
	return err
}
