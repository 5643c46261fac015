package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/service"
)

// CartHandler exposes the signed-in customer's cart.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddItemRequest adds one unit of a menu item.
type AddItemRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

// Get godoc
// @Summary Current cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} cart.Snapshot
// @Router /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.cartService.Get(c.Request().Context(), p.ID))
}

// Add godoc
// @Summary Add a menu item to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddItemRequest true "Item"
// @Success 200 {object} cart.Snapshot
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) Add(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	var req AddItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	snap, err := h.cartService.AddItem(c.Request().Context(), p.ID, req.ItemID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Remove godoc
// @Summary Remove a line from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Success 200 {object} cart.Snapshot
// @Router /cart/items/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.cartService.Remove(c.Request().Context(), p.ID, c.Param("id")))
}

// Increase godoc
// @Summary Add one unit to a cart line
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Success 200 {object} cart.Snapshot
// @Router /cart/items/{id}/increase [post]
func (h *CartHandler) Increase(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.cartService.Increase(c.Request().Context(), p.ID, c.Param("id")))
}

// Decrease godoc
// @Summary Remove one unit from a cart line
// @Description A line at quantity one is removed.
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Success 200 {object} cart.Snapshot
// @Router /cart/items/{id}/decrease [post]
func (h *CartHandler) Decrease(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.cartService.Decrease(c.Request().Context(), p.ID, c.Param("id")))
}

// Clear godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} cart.Snapshot
// @Router /cart [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.cartService.Clear(c.Request().Context(), p.ID))
}
