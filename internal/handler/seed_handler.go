package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/errors"
	"pizzeria/internal/service"
)

// maxSeedBody bounds the uploaded catalog.
const maxSeedBody = 1 << 20

// SeedHandler loads a YAML catalog through the API.
type SeedHandler struct {
	seedService service.SeedService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seedService service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// Seed godoc
// @Summary Seed the menu from a YAML catalog
// @Tags admin
// @Accept application/x-yaml
// @Produce json
// @Security BearerAuth
// @Param catalog body string true "YAML catalog"
// @Success 200 {object} service.SeedResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /admin/seed [post]
func (h *SeedHandler) Seed(c echo.Context) error {
	body := http.MaxBytesReader(c.Response(), c.Request().Body, maxSeedBody)
	catalog, err := service.ParseCatalog(body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_CATALOG",
		})
	}

	result, err := h.seedService.Seed(c.Request().Context(), catalog)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, result)
}
