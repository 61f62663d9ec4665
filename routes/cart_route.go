package routes

import (
	cartController "github.com/aryanwebd35/food-factory/controllers/cart"

	"github.com/gofiber/fiber/v2"
)

func CartRoutes(api fiber.Router, h *cartController.CartController, auth fiber.Handler) {
	cart := api.Group("/cart", auth)
	cart.Post("/add", h.AddToCart)
	cart.Post("/remove", h.RemoveFromCart)
	cart.Post("/get", h.GetCart)
}
