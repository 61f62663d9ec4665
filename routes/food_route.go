package routes

import (
	foodController "github.com/aryanwebd35/food-factory/controllers/food"
	"github.com/aryanwebd35/food-factory/middlewares"

	"github.com/gofiber/fiber/v2"
)

func FoodRoutes(api fiber.Router, h *foodController.FoodController, auth fiber.Handler) {
	food := api.Group("/food")
	food.Get("/list", h.ListFood)

	//For admin
	food.Post("/add", auth, middlewares.AdminMiddleware, h.AddFood)
	food.Post("/remove", auth, middlewares.AdminMiddleware, h.RemoveFood)
}
