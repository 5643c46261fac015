package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, time.Minute, cfg.MenuCacheTTL)
	assert.Equal(t, 3, cfg.MenuFetchAttempts)
	assert.Equal(t, "pizzeria:cart", cfg.CartNamespace)
	assert.True(t, decimal.RequireFromString("5.90").Equal(cfg.DeliveryFee))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("MENU_CACHE_TTL", "30s")
	t.Setenv("MENU_FETCH_ATTEMPTS", "0")
	t.Setenv("DELIVERY_FEE", "7.5")
	t.Setenv("RESET_DB", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.MenuCacheTTL)
	assert.Equal(t, 1, cfg.MenuFetchAttempts)
	assert.True(t, decimal.RequireFromString("7.50").Equal(cfg.DeliveryFee))
	assert.True(t, cfg.ResetDB)
}

func TestLoad_InvalidFeeFallsBack(t *testing.T) {
	t.Setenv("DELIVERY_FEE", "abc")

	cfg := Load()

	assert.True(t, decimal.RequireFromString("5.90").Equal(cfg.DeliveryFee))
}
