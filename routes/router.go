package routes

import (
	"errors"

	cartController "github.com/aryanwebd35/food-factory/controllers/cart"
	foodController "github.com/aryanwebd35/food-factory/controllers/food"
	orderController "github.com/aryanwebd35/food-factory/controllers/orders"
	userController "github.com/aryanwebd35/food-factory/controllers/user"
	"github.com/aryanwebd35/food-factory/metrics"
	"github.com/aryanwebd35/food-factory/middlewares"
	"github.com/aryanwebd35/food-factory/responses"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Handlers struct {
	Cart   *cartController.CartController
	Orders *orderController.OrderController
	Food   *foodController.FoodController
	User   *userController.UserController
}

type AppConfig struct {
	UploadDir string
	Tokens    middlewares.TokenParser
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

// NewApp wires middleware and every route under /api.
func NewApp(cfg AppConfig, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "food-factory",
		BodyLimit:    8 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New())
	app.Use(middlewares.LoggerMiddleware(cfg.Logger, cfg.Metrics))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(responses.OK("ok"))
	})
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
	if cfg.UploadDir != "" {
		app.Static("/images", cfg.UploadDir)
	}

	auth := middlewares.AuthMiddleware(cfg.Tokens)
	api := app.Group("/api")
	CartRoutes(api, h.Cart, auth)
	OrderRoutes(api, h.Orders, auth)
	FoodRoutes(api, h.Food, auth)
	UserRoute(api, h.User, auth)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return c.Status(code).JSON(responses.Fail(message))
}
