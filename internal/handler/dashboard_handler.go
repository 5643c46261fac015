package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/service"
)

// DashboardHandler serves the back-office overview.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
// @Summary Store activity overview
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Summary
// @Failure 403 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	summary, err := h.dashboardService.Summary(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, summary)
}
