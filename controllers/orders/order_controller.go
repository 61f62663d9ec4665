package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/aryanwebd35/food-factory/middlewares"
	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/payments"
	"github.com/aryanwebd35/food-factory/responses"
	"github.com/aryanwebd35/food-factory/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	PlaceOnline(ctx context.Context, userID string, in services.PlaceOrderInput) (*models.Order, string, error)
	PlaceCod(ctx context.Context, userID string, in services.PlaceOrderInput) (*models.Order, error)
	VerifyPayment(ctx context.Context, orderID string, success bool, proof payments.PaymentProof) (bool, error)
	RedirectURL(orderID string, success bool) string
	UpdateStatus(ctx context.Context, orderID string, status models.OrderStatus) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]models.Order, error)
}

type OrderController struct {
	orders OrderService
	logger zerolog.Logger
}

func NewOrderController(orders OrderService, logger zerolog.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

// PlaceOrderRequest is the checkout form the storefront submits.
type PlaceOrderRequest struct {
	Items   []services.ItemRequest `json:"items"`
	Amount  decimal.Decimal        `json:"amount"`
	Address models.Address         `json:"address"`
}

func (r PlaceOrderRequest) input() services.PlaceOrderInput {
	return services.PlaceOrderInput{Items: r.Items, Amount: r.Amount, Address: r.Address}
}

// flexBool decodes true, false, "true" and "false".
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return errors.New("success must be true or false")
	}
	*b = flexBool(v)
	return nil
}

type VerifyPaymentRequest struct {
	OrderID string   `json:"orderId"`
	Success flexBool `json:"success"`

	PaymentID     string `json:"razorpay_payment_id"`
	PaymentLinkID string `json:"razorpay_payment_link_id"`
	ReferenceID   string `json:"razorpay_payment_link_reference_id"`
	LinkStatus    string `json:"razorpay_payment_link_status"`
	Signature     string `json:"razorpay_signature"`
}

func (r VerifyPaymentRequest) proof() payments.PaymentProof {
	return payments.PaymentProof{
		PaymentLinkID: r.PaymentLinkID,
		ReferenceID:   r.ReferenceID,
		Status:        r.LinkStatus,
		PaymentID:     r.PaymentID,
		Signature:     r.Signature,
	}
}

type UpdateStatusRequest struct {
	OrderID string             `json:"orderId"`
	Status  models.OrderStatus `json:"status"`
}

func (h *OrderController) PlaceOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 30*time.Second)
	defer cancel()

	var orderReq PlaceOrderRequest
	if err := c.BodyParser(&orderReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid request body"))
	}

	_, sessionURL, err := h.orders.PlaceOnline(ctx, middlewares.UserID(c), orderReq.input())
	if err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.SessionResponse{Success: true, SessionURL: sessionURL})
}

func (h *OrderController) PlaceOrderCod(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var orderReq PlaceOrderRequest
	if err := c.BodyParser(&orderReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid request body"))
	}

	if _, err := h.orders.PlaceCod(ctx, middlewares.UserID(c), orderReq.input()); err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.OK("Order Placed"))
}

func (h *OrderController) VerifyOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var verifyReq VerifyPaymentRequest
	if err := c.BodyParser(&verifyReq); err != nil || verifyReq.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid request body"))
	}

	paid, err := h.orders.VerifyPayment(ctx, verifyReq.OrderID, bool(verifyReq.Success), verifyReq.proof())
	if err != nil {
		return responses.Error(c, err)
	}
	if paid {
		return c.JSON(responses.OK("Paid"))
	}
	return c.JSON(responses.Fail("Not Paid"))
}

// PaymentCallback is where the gateway sends the shopper after a payment
// link. The signed result settles the order before the shopper is redirected
// to the storefront.
func (h *OrderController) PaymentCallback(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	orderID := c.Query("orderId")
	if orderID == "" {
		orderID = c.Query("razorpay_payment_link_reference_id")
	}
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("orderId is required"))
	}

	proof := payments.PaymentProof{
		PaymentLinkID: c.Query("razorpay_payment_link_id"),
		ReferenceID:   c.Query("razorpay_payment_link_reference_id"),
		Status:        c.Query("razorpay_payment_link_status"),
		PaymentID:     c.Query("razorpay_payment_id"),
		Signature:     c.Query("razorpay_signature"),
	}
	if !proof.Present() {
		return c.Redirect(h.orders.RedirectURL(orderID, false), fiber.StatusFound)
	}

	paid, err := h.orders.VerifyPayment(ctx, orderID, proof.Paid(), proof)
	if err != nil {
		h.logger.Warn().Err(err).Str("order_id", orderID).Msg("payment callback rejected")
	}
	return c.Redirect(h.orders.RedirectURL(orderID, paid), fiber.StatusFound)
}

func (h *OrderController) ListOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	orders, err := h.orders.ListOrders(ctx)
	if err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.DataResponse{Success: true, Data: orders})
}

func (h *OrderController) UserOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	orders, err := h.orders.ListUserOrders(ctx, middlewares.UserID(c))
	if err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.DataResponse{Success: true, Data: orders})
}

func (h *OrderController) UpdateStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var statusReq UpdateStatusRequest
	if err := c.BodyParser(&statusReq); err != nil || statusReq.OrderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid request body"))
	}

	if err := h.orders.UpdateStatus(ctx, statusReq.OrderID, statusReq.Status); err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.OK("Status Updated"))
}
