package routes

import (
	orderController "github.com/aryanwebd35/food-factory/controllers/orders"
	"github.com/aryanwebd35/food-factory/middlewares"

	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(api fiber.Router, h *orderController.OrderController, auth fiber.Handler) {
	order := api.Group("/order")

	// Reached by the shopper's browser on the way back from the gateway.
	order.Post("/verify", h.VerifyOrder)
	order.Get("/callback", h.PaymentCallback)

	order.Post("/place", auth, h.PlaceOrder)
	order.Post("/placecod", auth, h.PlaceOrderCod)
	order.Post("/userorders", auth, h.UserOrders)

	order.Get("/list", auth, middlewares.AdminMiddleware, h.ListOrders)
	order.Post("/status", auth, middlewares.AdminMiddleware, h.UpdateStatus)
}
