package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, "4000", cfg.Port)
	require.Equal(t, "INR", cfg.Currency)
	require.True(t, decimal.NewFromInt(50).Equal(cfg.DeliveryCharge))
	require.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	require.Equal(t, 24*time.Hour, cfg.StaleOrderAge)
	require.False(t, cfg.StrictStatusTransitions)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DELIVERY_CHARGE", "35.5")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("STRICT_STATUS_TRANSITIONS", "true")
	t.Setenv("FRONTEND_URL", "https://shop.example.com/")
	t.Setenv("ADMIN_EMAILS", " Owner@Example.com, ,chef@example.com")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.True(t, decimal.RequireFromString("35.5").Equal(cfg.DeliveryCharge))
	require.Equal(t, 3*time.Second, cfg.GatewayTimeout)
	require.True(t, cfg.StrictStatusTransitions)
	require.Equal(t, "https://shop.example.com", cfg.FrontendURL)
	require.Equal(t, []string{"owner@example.com", "chef@example.com"}, cfg.AdminEmails)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DB=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MONGO_DB") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.MongoDB)
}

func TestLoadConfigRejectsBadDeliveryCharge(t *testing.T) {
	t.Setenv("DELIVERY_CHARGE", "fifty")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)

	t.Setenv("DELIVERY_CHARGE", "-1")
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}
