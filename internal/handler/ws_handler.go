package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pizzeria/internal/auth"
	"pizzeria/internal/errors"
	"pizzeria/internal/realtime"
)

// WSHandler upgrades authenticated requests to the realtime hub.
type WSHandler struct {
	hub        *realtime.Hub
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	log        *zap.Logger
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(hub *realtime.Hub, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, log *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, jwtService: jwtService, tokenStore: tokenStore, log: log.Named("ws")}
}

// Connect godoc
// @Summary Realtime events
// @Description Browsers cannot set headers on websocket upgrades, so the access token travels in the query string.
// @Tags realtime
// @Param token query string true "Access token"
// @Success 101
// @Failure 401 {object} errors.ErrorResponse
// @Router /ws [get]
func (h *WSHandler) Connect(c echo.Context) error {
	parse := auth.TokenParser(h.jwtService, h.tokenStore)
	token, err := parse(c, c.QueryParam("token"))
	if err != nil {
		return fail(errors.ErrUnauthenticated)
	}
	claims := token.(*auth.Claims)

	if err := h.hub.Serve(c.Response(), c.Request(), claims.UserID); err != nil {
		h.log.Debug("websocket upgrade failed", zap.String("user_id", claims.UserID), zap.Error(err))
	}
	return nil
}
