package routes

import (
	userController "github.com/aryanwebd35/food-factory/controllers/user"

	"github.com/gofiber/fiber/v2"
)

func UserRoute(api fiber.Router, h *userController.UserController, auth fiber.Handler) {
	user := api.Group("/user")
	user.Post("/register", h.Register)
	user.Post("/login", h.Login)
	user.Post("/google-login", h.GoogleLogin)
	user.Get("/profile", auth, h.Profile)
}
