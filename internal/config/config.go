package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	DBDriver    string
	DBDSN       string
	ResetDB     bool
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string

	LogLevel  string
	LogFormat string

	MenuCacheTTL      time.Duration
	MenuFetchAttempts int
	CartNamespace     string
	DeliveryFee       decimal.Decimal
}

// Load builds Config from the environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_DSN", "user:password@tcp(localhost:3306)/pizzeria?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("RESET_DB", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("MENU_CACHE_TTL", time.Minute)
	v.SetDefault("MENU_FETCH_ATTEMPTS", 3)
	v.SetDefault("CART_NAMESPACE", "pizzeria:cart")
	v.SetDefault("DELIVERY_FEE", "5.90")

	fee, err := decimal.NewFromString(v.GetString("DELIVERY_FEE"))
	if err != nil || fee.IsNegative() {
		fee = decimal.RequireFromString("5.90")
	}

	attempts := v.GetInt("MENU_FETCH_ATTEMPTS")
	if attempts < 1 {
		attempts = 1
	}

	return &Config{
		ServerPort:        v.GetString("SERVER_PORT"),
		DBDriver:          v.GetString("DB_DRIVER"),
		DBDSN:             v.GetString("DB_DSN"),
		ResetDB:           v.GetBool("RESET_DB"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisDB:           v.GetInt("REDIS_DB"),
		RedisPass:         v.GetString("REDIS_PASSWORD"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		SwaggerHost:       v.GetString("SWAGGER_HOST"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		MenuCacheTTL:      v.GetDuration("MENU_CACHE_TTL"),
		MenuFetchAttempts: attempts,
		CartNamespace:     v.GetString("CART_NAMESPACE"),
		DeliveryFee:       fee,
	}
}
