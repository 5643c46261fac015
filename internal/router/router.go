package router

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"pizzeria/internal/auth"
	"pizzeria/internal/errors"
	"pizzeria/internal/handler"
	"pizzeria/internal/logger"
	"pizzeria/internal/metrics"
)

// Deps are the collaborators the middleware chain needs.
type Deps struct {
	JWT      *auth.JWTService
	Tokens   auth.TokenStoreInterface
	Profiles auth.ProfileFinder
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// Handlers groups every HTTP handler.
type Handlers struct {
	Auth      *handler.AuthHandler
	Menu      *handler.MenuHandler
	Cart      *handler.CartHandler
	Order     *handler.OrderHandler
	Profile   *handler.ProfileHandler
	Dashboard *handler.DashboardHandler
	Seed      *handler.SeedHandler
	WS        *handler.WSHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, deps Deps, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware(deps.Log))
	e.Use(middleware.Recover())
	e.Use(deps.Metrics.Middleware())

	// Add validator
	e.Validator = handler.NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.GET("/menu", h.Menu.List)
	api.POST("/menu/refresh", h.Menu.Refresh)
	api.GET("/ws", h.WS.Connect)

	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: auth.TokenParser(deps.JWT, deps.Tokens),
		TokenLookup:    "header:" + echo.HeaderAuthorization + ":Bearer ",
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: errors.ErrUnauthenticated.Message,
				Code:  errors.ErrUnauthenticated.Code,
			})
		},
	})

	// Signed-in customers and administrators
	secured := api.Group("", jwtMiddleware, auth.RequireAccess(auth.RouteCustomer, deps.Profiles))

	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/session", h.Auth.Session)

	secured.GET("/profile", h.Profile.Me)
	secured.PUT("/profile", h.Profile.UpdateMe)

	secured.GET("/cart", h.Cart.Get)
	secured.DELETE("/cart", h.Cart.Clear)
	secured.POST("/cart/items", h.Cart.Add)
	secured.DELETE("/cart/items/:id", h.Cart.Remove)
	secured.POST("/cart/items/:id/increase", h.Cart.Increase)
	secured.POST("/cart/items/:id/decrease", h.Cart.Decrease)

	secured.POST("/orders", h.Order.Checkout)
	secured.GET("/orders", h.Order.ListMine)
	secured.GET("/orders/:id", h.Order.Get)
	secured.GET("/orders/:id/history", h.Order.History)

	// Back-office, role read from the profile store on each request
	admin := api.Group("/admin", jwtMiddleware, auth.RequireAccess(auth.RouteAdmin, deps.Profiles))

	admin.GET("/dashboard", h.Dashboard.Summary)

	admin.GET("/menu", h.Menu.ListAll)
	admin.POST("/menu", h.Menu.Create)
	admin.GET("/menu/:id", h.Menu.Get)
	admin.PUT("/menu/:id", h.Menu.Update)
	admin.DELETE("/menu/:id", h.Menu.Deactivate)

	admin.GET("/orders", h.Order.ListAll)
	admin.PATCH("/orders/:id/status", h.Order.UpdateStatus)

	admin.GET("/users", h.Profile.List)
	admin.PATCH("/users/:id/role", h.Profile.UpdateRole)

	admin.POST("/seed", h.Seed.Seed)
}
