package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aryanwebd35/food-factory/metrics"
	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/payments"
	"github.com/aryanwebd35/food-factory/payments/paymenttest"
	"github.com/aryanwebd35/food-factory/repositories"
	"github.com/aryanwebd35/food-factory/repositories/memstore"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeGateway struct {
	err      error
	delay    time.Duration
	requests []payments.CheckoutRequest
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (*payments.Session, error) {
	g.requests = append(g.requests, req)
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, payments.ErrGatewayTimeout
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	return &payments.Session{ID: "sess_" + req.OrderID, URL: "https://pay.example.com/" + req.OrderID}, nil
}

// failingCart wraps a cart store and can be told to fail Replace.
type failingCart struct {
	*memstore.CartStore
	failReplace bool
}

func (c *failingCart) Replace(ctx context.Context, userID string, cart models.CartData) error {
	if c.failReplace {
		return errors.New("cart store down")
	}
	return c.CartStore.Replace(ctx, userID, cart)
}

// cancellingOrders cancels the request once the order is stored, and its
// Delete honours the context it is given.
type cancellingOrders struct {
	*memstore.OrderStore
	cancel context.CancelFunc
}

func (o *cancellingOrders) Create(ctx context.Context, order *models.Order) error {
	err := o.OrderStore.Create(ctx, order)
	o.cancel()
	return err
}

func (o *cancellingOrders) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.OrderStore.Delete(ctx, id)
}

// contextCart fails writes on a done context.
type contextCart struct {
	*memstore.CartStore
}

func (c contextCart) Replace(ctx context.Context, userID string, cart models.CartData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.CartStore.Replace(ctx, userID, cart)
}

type OrderServiceTestSuite struct {
	suite.Suite
	orders  *memstore.OrderStore
	carts   *failingCart
	foods   *memstore.FoodStore
	gateway *fakeGateway
	metrics *metrics.Metrics
	cfg     OrderConfig
	service *OrderService

	soup  models.Food
	salad models.Food
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.soup = models.Food{Name: "Tomato Soup", Price: decimal.NewFromInt(10), Category: "Soup", Image: "soup.png"}
	suite.salad = models.Food{Name: "Greek Salad", Price: decimal.RequireFromString("12.50"), Category: "Salad", Image: "salad.png"}
	suite.foods = memstore.NewFoodStore()
	require.NoError(suite.T(), suite.foods.Create(context.Background(), &suite.soup))
	require.NoError(suite.T(), suite.foods.Create(context.Background(), &suite.salad))

	suite.orders = memstore.NewOrderStore()
	suite.carts = &failingCart{CartStore: memstore.NewCartStore()}
	suite.gateway = &fakeGateway{}
	suite.metrics = metrics.New()
	suite.cfg = OrderConfig{
		Currency:       "INR",
		DeliveryCharge: decimal.NewFromInt(50),
		FrontendURL:    "https://shop.example.com",
		PublicURL:      "https://api.example.com",
		GatewayTimeout: time.Second,
		GatewaySecret:  "secret",
	}
	suite.rebuild()
}

func (suite *OrderServiceTestSuite) rebuild() {
	suite.service = NewOrderService(suite.orders, suite.carts, suite.foods, suite.gateway, suite.cfg, suite.metrics, zerolog.Nop())
}

func (suite *OrderServiceTestSuite) address() models.Address {
	return models.Address{
		FirstName: "Asha", LastName: "Rao", Email: "asha@example.com",
		Street: "1 MG Road", City: "Pune", State: "MH", Zipcode: "411001",
		Country: "India", Phone: "9999999999",
	}
}

func (suite *OrderServiceTestSuite) input(amount string, items ...ItemRequest) PlaceOrderInput {
	return PlaceOrderInput{Items: items, Amount: decimal.RequireFromString(amount), Address: suite.address()}
}

func (suite *OrderServiceTestSuite) fillCart(userID string) {
	ctx := context.Background()
	require.NoError(suite.T(), suite.carts.Increment(ctx, userID, suite.soup.ID.Hex()))
	require.NoError(suite.T(), suite.carts.Increment(ctx, userID, suite.soup.ID.Hex()))
}

func (suite *OrderServiceTestSuite) TestPlaceCodCreatesPaidOrderAndClearsCart() {
	ctx := context.Background()
	suite.fillCart("u1")

	order, err := suite.service.PlaceCod(ctx, "u1", suite.input("70", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 2}))
	require.NoError(suite.T(), err)

	require.True(suite.T(), order.Payment)
	require.Equal(suite.T(), models.StatusFoodProcessing, order.Status)
	require.Equal(suite.T(), models.PaymentCOD, order.PaymentMethod)
	require.True(suite.T(), decimal.NewFromInt(70).Equal(order.Amount))

	cart, err := suite.carts.GetCart(ctx, "u1")
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), cart)
	require.Empty(suite.T(), suite.gateway.requests)
	require.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.OrdersPlaced.WithLabelValues("cod")))
}

func (suite *OrderServiceTestSuite) TestAmountInvariant() {
	ctx := context.Background()
	order, err := suite.service.PlaceCod(ctx, "u1", suite.input("85",
		ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 1},
		ItemRequest{ItemID: suite.salad.ID.Hex(), Quantity: 2},
	))
	require.NoError(suite.T(), err)

	want := models.Subtotal(order.Items).Add(suite.cfg.DeliveryCharge)
	require.True(suite.T(), want.Equal(order.Amount))
}

func (suite *OrderServiceTestSuite) TestRejectsTamperedAmount() {
	ctx := context.Background()
	suite.fillCart("u1")

	_, err := suite.service.PlaceCod(ctx, "u1", suite.input("1", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 2}))
	require.ErrorIs(suite.T(), err, ErrAmountMismatch)

	all, err := suite.orders.List(ctx)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), all)

	cart, err := suite.carts.GetCart(ctx, "u1")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 2, cart[suite.soup.ID.Hex()])
}

func (suite *OrderServiceTestSuite) TestValidationErrors() {
	ctx := context.Background()

	_, err := suite.service.PlaceCod(ctx, "u1", suite.input("50"))
	require.ErrorIs(suite.T(), err, ErrEmptyCart)

	_, err = suite.service.PlaceCod(ctx, "u1", suite.input("50", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 0}))
	require.ErrorIs(suite.T(), err, ErrInvalidQuantity)

	_, err = suite.service.PlaceCod(ctx, "u1", suite.input("60", ItemRequest{ID: "665f1c2a9b1e8a3d4c5b6a79", Quantity: 1}))
	require.ErrorIs(suite.T(), err, ErrItemNotFound)

	in := suite.input("60", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 1})
	in.Address.City = ""
	_, err = suite.service.PlaceCod(ctx, "u1", in)
	require.ErrorIs(suite.T(), err, ErrInvalidAddress)

	in.Address = suite.address()
	in.Address.Email = "not-an-email"
	_, err = suite.service.PlaceCod(ctx, "u1", in)
	require.ErrorIs(suite.T(), err, ErrInvalidAddress)
	require.ErrorIs(suite.T(), err, ErrInvalidEmail)
}

func (suite *OrderServiceTestSuite) TestSnapshotUsesCatalogPrice() {
	ctx := context.Background()
	order, err := suite.service.PlaceCod(ctx, "u1", suite.input("60", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 1}))
	require.NoError(suite.T(), err)

	suite.soup.Price = decimal.NewFromInt(99)
	require.NoError(suite.T(), suite.foods.Create(ctx, &suite.soup))

	stored, err := suite.orders.FindByID(ctx, order.ID.Hex())
	require.NoError(suite.T(), err)
	require.True(suite.T(), decimal.NewFromInt(10).Equal(stored.Items[0].Price))
	require.Equal(suite.T(), "Tomato Soup", stored.Items[0].Name)
}

func (suite *OrderServiceTestSuite) TestPlaceOnlineBuildsCheckout() {
	ctx := context.Background()
	suite.fillCart("u1")

	order, sessionURL, err := suite.service.PlaceOnline(ctx, "u1", suite.input("70", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 2}))
	require.NoError(suite.T(), err)
	require.False(suite.T(), order.Payment)
	require.Equal(suite.T(), models.PaymentOnline, order.PaymentMethod)
	require.Equal(suite.T(), "https://pay.example.com/"+order.ID.Hex(), sessionURL)

	require.Len(suite.T(), suite.gateway.requests, 1)
	req := suite.gateway.requests[0]
	require.Equal(suite.T(), "INR", req.Currency)
	require.Equal(suite.T(), []payments.LineItem{
		{Name: "Tomato Soup", UnitAmount: 1000, Quantity: 2},
		{Name: "Delivery Charge", UnitAmount: 5000, Quantity: 1},
	}, req.LineItems)
	require.EqualValues(suite.T(), 7000, req.Total())
	require.Equal(suite.T(), "https://shop.example.com/verify?orderId="+order.ID.Hex()+"&success=true", req.SuccessURL)
	require.Equal(suite.T(), "https://shop.example.com/verify?orderId="+order.ID.Hex()+"&success=false", req.CancelURL)
	require.Equal(suite.T(), "https://api.example.com/api/order/callback?orderId="+order.ID.Hex(), req.CallbackURL)
	require.Equal(suite.T(), "Asha Rao", req.Customer.Name)

	cart, err := suite.carts.GetCart(ctx, "u1")
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), cart)
}

func (suite *OrderServiceTestSuite) TestGatewayFailureRestoresCart() {
	ctx := context.Background()
	suite.fillCart("u1")
	suite.gateway.err = payments.ErrGatewayUnavailable

	_, _, err := suite.service.PlaceOnline(ctx, "u1", suite.input("70", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 2}))
	require.ErrorIs(suite.T(), err, payments.ErrGatewayUnavailable)

	all, err := suite.orders.List(ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 1)
	require.False(suite.T(), all[0].Payment)

	cart, err := suite.carts.GetCart(ctx, "u1")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), models.CartData{suite.soup.ID.Hex(): 2}, cart)
	require.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.GatewayErrors))
	require.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.Compensations.WithLabelValues("restore_cart", "ok")))
}

func (suite *OrderServiceTestSuite) TestGatewayTimeoutIsFailure() {
	ctx := context.Background()
	suite.gateway.delay = time.Second
	suite.cfg.GatewayTimeout = 20 * time.Millisecond
	suite.rebuild()

	_, _, err := suite.service.PlaceOnline(ctx, "u1", suite.input("60", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 1}))
	require.ErrorIs(suite.T(), err, payments.ErrGatewayTimeout)

	all, err := suite.orders.List(ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 1)
	require.False(suite.T(), all[0].Payment)
}

func (suite *OrderServiceTestSuite) TestCartClearFailureDeletesOrder() {
	ctx := context.Background()
	suite.carts.failReplace = true

	_, err := suite.service.PlaceCod(ctx, "u1", suite.input("60", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 1}))
	require.Error(suite.T(), err)

	all, err := suite.orders.List(ctx)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), all)
}

func (suite *OrderServiceTestSuite) TestCancelledRequestStillDeletesOrder() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	orders := &cancellingOrders{OrderStore: suite.orders, cancel: cancel}
	service := NewOrderService(orders, contextCart{CartStore: memstore.NewCartStore()}, suite.foods, suite.gateway, suite.cfg, suite.metrics, zerolog.Nop())

	_, err := service.PlaceCod(ctx, "u1", suite.input("60", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 1}))
	require.ErrorIs(suite.T(), err, context.Canceled)

	all, err := suite.orders.List(context.Background())
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), all)
	require.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.Compensations.WithLabelValues("delete_order", "ok")))
}

func (suite *OrderServiceTestSuite) TestAddressErrorNamesFirstMissingField() {
	in := suite.input("60", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 1})
	in.Address.FirstName = ""
	in.Address.City = ""
	in.Address.Phone = ""

	for i := 0; i < 20; i++ {
		_, err := suite.service.PlaceCod(context.Background(), "u1", in)
		require.ErrorIs(suite.T(), err, ErrInvalidAddress)
		require.Contains(suite.T(), err.Error(), "firstName is required")
	}
}

func (suite *OrderServiceTestSuite) placeOnline(userID string) *models.Order {
	order, _, err := suite.service.PlaceOnline(context.Background(), userID, suite.input("60", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 1}))
	require.NoError(suite.T(), err)
	return order
}

func (suite *OrderServiceTestSuite) TestVerifySuccessIsIdempotent() {
	ctx := context.Background()
	order := suite.placeOnline("u1")

	for i := 0; i < 2; i++ {
		paid, err := suite.service.VerifyPayment(ctx, order.ID.Hex(), true, payments.PaymentProof{})
		require.NoError(suite.T(), err)
		require.True(suite.T(), paid)
	}

	orders, err := suite.service.ListUserOrders(ctx, "u1")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), orders, 1)
	require.True(suite.T(), orders[0].Payment)
	require.Equal(suite.T(), order.Items, orders[0].Items)
}

func (suite *OrderServiceTestSuite) TestVerifyFailureDeletesOrder() {
	ctx := context.Background()
	order := suite.placeOnline("u1")

	paid, err := suite.service.VerifyPayment(ctx, order.ID.Hex(), false, payments.PaymentProof{})
	require.NoError(suite.T(), err)
	require.False(suite.T(), paid)

	orders, err := suite.service.ListUserOrders(ctx, "u1")
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), orders)

	_, err = suite.service.VerifyPayment(ctx, order.ID.Hex(), false, payments.PaymentProof{})
	require.ErrorIs(suite.T(), err, ErrOrderNotFound)
}

func (suite *OrderServiceTestSuite) TestVerifyFailureKeepsPaidOrder() {
	ctx := context.Background()
	order, err := suite.service.PlaceCod(ctx, "u1", suite.input("60", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 1}))
	require.NoError(suite.T(), err)

	_, err = suite.service.VerifyPayment(ctx, order.ID.Hex(), false, payments.PaymentProof{})
	require.ErrorIs(suite.T(), err, ErrOrderAlreadyPaid)

	_, err = suite.orders.FindByID(ctx, order.ID.Hex())
	require.NoError(suite.T(), err)
}

func (suite *OrderServiceTestSuite) TestVerifyUnknownOrder() {
	_, err := suite.service.VerifyPayment(context.Background(), "665f1c2a9b1e8a3d4c5b6a79", true, payments.PaymentProof{})
	require.ErrorIs(suite.T(), err, ErrOrderNotFound)

	_, err = suite.service.VerifyPayment(context.Background(), "garbage", true, payments.PaymentProof{})
	require.ErrorIs(suite.T(), err, ErrOrderNotFound)
}

func (suite *OrderServiceTestSuite) TestVerifySignedProof() {
	ctx := context.Background()
	order := suite.placeOnline("u1")

	proof := payments.PaymentProof{
		PaymentLinkID: "plink_1",
		ReferenceID:   order.ID.Hex(),
		Status:        payments.PaymentLinkPaid,
		PaymentID:     "pay_1",
	}
	proof.Signature = paymenttest.Sign("secret", proof)

	forged := proof
	forged.Signature = "deadbeef"
	_, err := suite.service.VerifyPayment(ctx, order.ID.Hex(), true, forged)
	require.ErrorIs(suite.T(), err, ErrInvalidSignature)

	stored, err := suite.orders.FindByID(ctx, order.ID.Hex())
	require.NoError(suite.T(), err)
	require.False(suite.T(), stored.Payment)

	// the signed status wins over the success flag
	paid, err := suite.service.VerifyPayment(ctx, order.ID.Hex(), false, proof)
	require.NoError(suite.T(), err)
	require.True(suite.T(), paid)
}

func (suite *OrderServiceTestSuite) TestVerifyRequiresSignatureWhenConfigured() {
	suite.cfg.RequirePaymentSignature = true
	suite.rebuild()
	order := suite.placeOnline("u1")

	_, err := suite.service.VerifyPayment(context.Background(), order.ID.Hex(), true, payments.PaymentProof{})
	require.ErrorIs(suite.T(), err, ErrInvalidSignature)

	paid, err := suite.service.VerifyPayment(context.Background(), order.ID.Hex(), false, payments.PaymentProof{})
	require.NoError(suite.T(), err)
	require.False(suite.T(), paid)
}

func (suite *OrderServiceTestSuite) TestUnsignedSuccessReportsSignedPayment() {
	suite.cfg.RequirePaymentSignature = true
	suite.rebuild()
	ctx := context.Background()
	order := suite.placeOnline("u1")

	proof := payments.PaymentProof{
		PaymentLinkID: "plink_1",
		ReferenceID:   order.ID.Hex(),
		Status:        payments.PaymentLinkPaid,
		PaymentID:     "pay_1",
	}
	proof.Signature = paymenttest.Sign("secret", proof)
	paid, err := suite.service.VerifyPayment(ctx, order.ID.Hex(), true, proof)
	require.NoError(suite.T(), err)
	require.True(suite.T(), paid)

	// the storefront's follow-up carries no signature
	paid, err = suite.service.VerifyPayment(ctx, order.ID.Hex(), true, payments.PaymentProof{})
	require.NoError(suite.T(), err)
	require.True(suite.T(), paid)

	stored, err := suite.orders.FindByID(ctx, order.ID.Hex())
	require.NoError(suite.T(), err)
	require.True(suite.T(), stored.Payment)

	_, err = suite.service.VerifyPayment(ctx, "665f1c2a9b1e8a3d4c5b6a79", true, payments.PaymentProof{})
	require.ErrorIs(suite.T(), err, ErrOrderNotFound)
}

func (suite *OrderServiceTestSuite) TestUpdateStatus() {
	ctx := context.Background()
	order := suite.placeOnline("u1")

	require.NoError(suite.T(), suite.service.UpdateStatus(ctx, order.ID.Hex(), models.StatusDelivered))
	require.NoError(suite.T(), suite.service.UpdateStatus(ctx, order.ID.Hex(), models.StatusFoodProcessing))
	require.ErrorIs(suite.T(), suite.service.UpdateStatus(ctx, order.ID.Hex(), "Eaten"), ErrInvalidStatus)

	stored, err := suite.orders.FindByID(ctx, order.ID.Hex())
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), models.StatusFoodProcessing, stored.Status)
	require.False(suite.T(), stored.Payment)
}

func (suite *OrderServiceTestSuite) TestUpdateStatusUnknownOrder() {
	ctx := context.Background()
	order := suite.placeOnline("u1")

	err := suite.service.UpdateStatus(ctx, "665f1c2a9b1e8a3d4c5b6a79", models.StatusDelivered)
	require.ErrorIs(suite.T(), err, ErrOrderNotFound)

	stored, err := suite.orders.FindByID(ctx, order.ID.Hex())
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), models.StatusFoodProcessing, stored.Status)
}

func (suite *OrderServiceTestSuite) TestStrictTransitions() {
	suite.cfg.StrictStatusTransitions = true
	suite.rebuild()
	ctx := context.Background()
	order := suite.placeOnline("u1")

	require.NoError(suite.T(), suite.service.UpdateStatus(ctx, order.ID.Hex(), models.StatusOutForDelivery))
	require.ErrorIs(suite.T(), suite.service.UpdateStatus(ctx, order.ID.Hex(), models.StatusFoodProcessing), ErrInvalidTransition)
	require.NoError(suite.T(), suite.service.UpdateStatus(ctx, order.ID.Hex(), models.StatusDelivered))
	require.ErrorIs(suite.T(), suite.service.UpdateStatus(ctx, "665f1c2a9b1e8a3d4c5b6a79", models.StatusDelivered), ErrOrderNotFound)
}

func (suite *OrderServiceTestSuite) TestListOrders() {
	ctx := context.Background()
	suite.placeOnline("u1")
	suite.placeOnline("u2")

	all, err := suite.service.ListOrders(ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 2)

	mine, err := suite.service.ListUserOrders(ctx, "u2")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), mine, 1)
	require.Equal(suite.T(), "u2", mine[0].UserID)
}

func (suite *OrderServiceTestSuite) TestReapStale() {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return base }
	stale := suite.placeOnline("u1")
	_, err := suite.service.PlaceCod(ctx, "u1", suite.input("60", ItemRequest{ID: suite.soup.ID.Hex(), Quantity: 1}))
	require.NoError(suite.T(), err)

	suite.service.now = func() time.Time { return base.Add(48 * time.Hour) }
	fresh := suite.placeOnline("u1")

	n, err := suite.service.ReapStale(ctx, 24*time.Hour)
	require.NoError(suite.T(), err)
	require.EqualValues(suite.T(), 1, n)

	_, err = suite.orders.FindByID(ctx, stale.ID.Hex())
	require.ErrorIs(suite.T(), err, repositories.ErrNotFound)
	_, err = suite.orders.FindByID(ctx, fresh.ID.Hex())
	require.NoError(suite.T(), err)
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
