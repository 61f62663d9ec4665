package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Port         string `mapstructure:"PORT"`
	MongoURI     string `mapstructure:"MONGOURI"`
	MongoDB      string `mapstructure:"MONGO_DB"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	CartBackend  string `mapstructure:"CART_BACKEND"`
	StoreBackend string `mapstructure:"STORE_BACKEND"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	PaymentGateway    string `mapstructure:"PAYMENT_GATEWAY"`
	RazorpayKeyID     string `mapstructure:"RAZORPAY_KEY_ID"`
	RazorpayKeySecret string `mapstructure:"RAZORPAY_KEY_SECRET"`
	Currency          string `mapstructure:"CURRENCY"`
	DeliveryChargeRaw string `mapstructure:"DELIVERY_CHARGE"`

	FrontendURL string `mapstructure:"FRONTEND_URL"`
	PublicURL   string `mapstructure:"PUBLIC_URL"`

	GatewayTimeout          time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
	StrictStatusTransitions bool          `mapstructure:"STRICT_STATUS_TRANSITIONS"`
	RequirePaymentSignature bool          `mapstructure:"REQUIRE_PAYMENT_SIGNATURE"`
	StaleOrderAge           time.Duration `mapstructure:"STALE_ORDER_AGE"`

	UploadDir          string `mapstructure:"UPLOAD_DIR"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
	GoogleTokenInfoURL string `mapstructure:"GOOGLE_TOKENINFO_URL"`
	AdminEmailsRaw     string `mapstructure:"ADMIN_EMAILS"`

	DeliveryCharge decimal.Decimal `mapstructure:"-"`
	AdminEmails    []string        `mapstructure:"-"`
}

var defaults = map[string]interface{}{
	"PORT":                      "4000",
	"MONGOURI":                  "mongodb://localhost:27017",
	"MONGO_DB":                  "food-del",
	"JWT_SECRET":                "",
	"CART_BACKEND":              "mongo",
	"STORE_BACKEND":             "mongo",
	"REDIS_ADDR":                "localhost:6379",
	"REDIS_PASSWORD":            "",
	"PAYMENT_GATEWAY":           "razorpay",
	"RAZORPAY_KEY_ID":           "",
	"RAZORPAY_KEY_SECRET":       "",
	"CURRENCY":                  "INR",
	"DELIVERY_CHARGE":           "50",
	"FRONTEND_URL":              "http://localhost:5173",
	"PUBLIC_URL":                "http://localhost:4000",
	"GATEWAY_TIMEOUT":           "10s",
	"STRICT_STATUS_TRANSITIONS": false,
	"REQUIRE_PAYMENT_SIGNATURE": false,
	"STALE_ORDER_AGE":           "24h",
	"UPLOAD_DIR":                "uploads",
	"LOG_LEVEL":                 "info",
	"GOOGLE_TOKENINFO_URL":      "https://oauth2.googleapis.com/tokeninfo",
	"ADMIN_EMAILS":              "",
}

// LoadConfig reads .env files when present and then the process environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	charge, err := decimal.NewFromString(strings.TrimSpace(cfg.DeliveryChargeRaw))
	if err != nil {
		return nil, fmt.Errorf("invalid DELIVERY_CHARGE %q: %w", cfg.DeliveryChargeRaw, err)
	}
	if charge.IsNegative() {
		return nil, fmt.Errorf("DELIVERY_CHARGE must not be negative")
	}
	cfg.DeliveryCharge = charge

	if cfg.GatewayTimeout <= 0 {
		return nil, fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	for _, email := range strings.Split(cfg.AdminEmailsRaw, ",") {
		if email = strings.TrimSpace(email); email != "" {
			cfg.AdminEmails = append(cfg.AdminEmails, strings.ToLower(email))
		}
	}
	return &cfg, nil
}
