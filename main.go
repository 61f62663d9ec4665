package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aryanwebd35/food-factory/configs"
	cartController "github.com/aryanwebd35/food-factory/controllers/cart"
	foodController "github.com/aryanwebd35/food-factory/controllers/food"
	orderController "github.com/aryanwebd35/food-factory/controllers/orders"
	userController "github.com/aryanwebd35/food-factory/controllers/user"
	"github.com/aryanwebd35/food-factory/metrics"
	"github.com/aryanwebd35/food-factory/payments"
	"github.com/aryanwebd35/food-factory/repositories"
	"github.com/aryanwebd35/food-factory/repositories/memstore"
	"github.com/aryanwebd35/food-factory/repositories/mongostore"
	"github.com/aryanwebd35/food-factory/repositories/redisstore"
	"github.com/aryanwebd35/food-factory/routes"
	"github.com/aryanwebd35/food-factory/services"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type stores struct {
	carts  repositories.CartRepository
	orders repositories.OrderRepository
	foods  repositories.FoodRepository
	users  repositories.UserRepository
	close  func()
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := run(logger, os.Args[1:]); err != nil {
		logger.Fatal().Err(err).Msg("food-factory stopped")
	}
}

func run(logger zerolog.Logger, args []string) error {
	cfg, err := configs.LoadConfig(".env")
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	logger = logger.Level(level)
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	m := metrics.New()
	orders := services.NewOrderService(st.orders, st.carts, st.foods, newGateway(cfg, logger), services.OrderConfig{
		Currency:                cfg.Currency,
		DeliveryCharge:          cfg.DeliveryCharge,
		FrontendURL:             cfg.FrontendURL,
		PublicURL:               cfg.PublicURL,
		GatewayTimeout:          cfg.GatewayTimeout,
		StrictStatusTransitions: cfg.StrictStatusTransitions,
		RequirePaymentSignature: cfg.RequirePaymentSignature,
		GatewaySecret:           cfg.RazorpayKeySecret,
	}, m, logger)

	if len(args) > 0 && args[0] == "reap" {
		n, err := orders.ReapStale(ctx, cfg.StaleOrderAge)
		if err != nil {
			return fmt.Errorf("reap stale orders: %w", err)
		}
		logger.Info().Int64("deleted", n).Msg("reap finished")
		return nil
	}
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q", args[0])
	}

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}

	tokens := services.NewTokenManager(cfg.JWTSecret, 0)
	foods := services.NewFoodService(st.foods, cfg.UploadDir, logger)
	app := routes.NewApp(routes.AppConfig{
		UploadDir: cfg.UploadDir,
		Tokens:    tokens,
		Metrics:   m,
		Logger:    logger,
	}, routes.Handlers{
		Cart:   cartController.NewCartController(services.NewCartService(st.carts, st.foods, logger)),
		Orders: orderController.NewOrderController(orders, logger),
		Food:   foodController.NewFoodController(foods),
		User: userController.NewUserController(services.NewUserService(
			st.users, tokens, services.NewGoogleTokenInfo(cfg.GoogleTokenInfoURL), logger).WithAdmins(cfg.AdminEmails)),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("listening")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}

func openStores(ctx context.Context, cfg *configs.Config, logger zerolog.Logger) (*stores, error) {
	st := &stores{close: func() {}}
	switch cfg.StoreBackend {
	case "memory":
		st.orders = memstore.NewOrderStore()
		st.foods = memstore.NewFoodStore()
		st.users = memstore.NewUserStore()
		st.carts = memstore.NewCartStore()
	case "mongo":
		client, err := configs.ConnectDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		st.close = func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("mongo disconnect")
			}
		}
		db := client.Database(cfg.MongoDB)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			st.close()
			return nil, err
		}
		st.orders = mongostore.NewOrderStore(db)
		st.foods = mongostore.NewFoodStore(db)
		st.users = mongostore.NewUserStore(db)
		st.carts = mongostore.NewCartStore(db)
		logger.Info().Str("database", cfg.MongoDB).Msg("connected to MongoDB")
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.CartBackend {
	case "mongo":
		// cartData on the user documents of the store backend
	case "memory":
		st.carts = memstore.NewCartStore()
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			st.close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		closeStore := st.close
		st.close = func() {
			_ = rdb.Close()
			closeStore()
		}
		st.carts = redisstore.NewCartStore(rdb, "cart")
	default:
		st.close()
		return nil, fmt.Errorf("unknown CART_BACKEND %q", cfg.CartBackend)
	}
	return st, nil
}

func newGateway(cfg *configs.Config, logger zerolog.Logger) payments.Gateway {
	if cfg.PaymentGateway == "local" {
		logger.Warn().Msg("local payment gateway settles every checkout")
		return payments.LocalGateway{}
	}
	return payments.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, logger)
}
