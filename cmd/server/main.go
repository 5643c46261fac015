package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pizzeria/docs" // swagger docs
	"pizzeria/internal/auth"
	"pizzeria/internal/cache"
	"pizzeria/internal/cart"
	"pizzeria/internal/config"
	"pizzeria/internal/db"
	"pizzeria/internal/handler"
	"pizzeria/internal/logger"
	"pizzeria/internal/metrics"
	"pizzeria/internal/realtime"
	"pizzeria/internal/repository"
	"pizzeria/internal/router"
	"pizzeria/internal/service"
)

const shutdownTimeout = 15 * time.Second

// @title Pizzeria API
// @version 1.0
// @description Pizza storefront API with menu browsing, carts, orders and an administrator back-office.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	log := logger.New(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN, log, cfg.LogLevel)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(ctx); err != nil {
		log.Warn("redis unreachable, running without cache", zap.Error(err))
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(gormDB)
	menuRepo := repository.NewMenuRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)
	statusRepo := repository.NewOrderStatusLogRepository(gormDB)

	m := metrics.New()

	hub := realtime.NewHub(log, m)
	go hub.Run(ctx)

	carts := cart.NewManager(cart.NewRedisStore(cacheClient.Redis(), cfg.CartNamespace), log, m)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(profileRepo, jwtService, tokenStore, carts, hub, log)
	menuService := service.NewMenuService(menuRepo, cacheClient, service.MenuOptions{
		CacheTTL:      cfg.MenuCacheTTL,
		FetchAttempts: cfg.MenuFetchAttempts,
	}, log, m)
	cartService := service.NewCartService(carts, menuRepo, log)
	orderService := service.NewOrderService(orderRepo, statusRepo, menuRepo, carts, hub, cfg.DeliveryFee, log, m)
	defer orderService.Close()
	profileService := service.NewProfileService(profileRepo, cacheClient, log)
	dashboardService := service.NewDashboardService(orderRepo, profileRepo)
	seedService := service.NewSeedService(menuRepo, profileRepo, cacheClient, log)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, router.Deps{
		JWT:      jwtService,
		Tokens:   tokenStore,
		Profiles: profileRepo,
		Metrics:  m,
		Log:      log,
	}, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Menu:      handler.NewMenuHandler(menuService),
		Cart:      handler.NewCartHandler(cartService),
		Order:     handler.NewOrderHandler(orderService),
		Profile:   handler.NewProfileHandler(profileService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Seed:      handler.NewSeedHandler(seedService),
		WS:        handler.NewWSHandler(hub, jwtService, tokenStore, log),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	log.Info("swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info("server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server start", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}
