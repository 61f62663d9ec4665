package cartController

import (
	"context"
	"time"

	"github.com/aryanwebd35/food-factory/middlewares"
	"github.com/aryanwebd35/food-factory/models"
	"github.com/aryanwebd35/food-factory/responses"
	"github.com/gofiber/fiber/v2"
)

type CartService interface {
	AddItem(ctx context.Context, userID, itemID string) error
	RemoveItem(ctx context.Context, userID, itemID string) error
	GetCart(ctx context.Context, userID string) (models.CartData, error)
}

type CartController struct {
	carts CartService
}

func NewCartController(carts CartService) *CartController {
	return &CartController{carts: carts}
}

type cartRequest struct {
	ItemID string `json:"itemId"`
}

func (h *CartController) AddToCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var request cartRequest
	if err := c.BodyParser(&request); err != nil || request.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid request"))
	}

	if err := h.carts.AddItem(ctx, middlewares.UserID(c), request.ItemID); err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.OK("Added To Cart"))
}

func (h *CartController) RemoveFromCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var request cartRequest
	if err := c.BodyParser(&request); err != nil || request.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.Fail("Invalid request"))
	}

	if err := h.carts.RemoveItem(ctx, middlewares.UserID(c), request.ItemID); err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.OK("Removed From Cart"))
}

// GetCart answers with the whole quantity map. The storefront posts an empty
// body, so nothing is parsed.
func (h *CartController) GetCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	cart, err := h.carts.GetCart(ctx, middlewares.UserID(c))
	if err != nil {
		return responses.Error(c, err)
	}
	return c.JSON(responses.CartResponse{Success: true, CartData: cart})
}
