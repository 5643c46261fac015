package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"pizzeria/internal/model"
	"pizzeria/internal/service"
)

// OrderHandler handles checkout and order tracking.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderResponse is an order with its status presentation.
type OrderResponse struct {
	*model.Order
	Presentation model.StatusPresentation `json:"presentation"`
	Progress     float64                  `json:"progress"`
	AmountDue    decimal.Decimal          `json:"amount_due"`
}

// UpdateStatusRequest sets the status of an order.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func newOrderResponse(o *model.Order) OrderResponse {
	p := model.DescribeStatus(string(o.Status))
	return OrderResponse{Order: o, Presentation: p, Progress: p.Progress(), AmountDue: o.AmountDue()}
}

func newOrderResponses(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, newOrderResponse(&orders[i]))
	}
	return out
}

// Checkout godoc
// @Summary Place an order from the cart
// @Description Payment is simulated. The cart is emptied on success.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 201 {object} OrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Checkout(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	order, err := h.orderService.Checkout(c.Request().Context(), p.ID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, newOrderResponse(order))
}

// ListMine godoc
// @Summary Orders of the signed-in customer
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} OrderResponse
// @Router /orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	orders, err := h.orderService.ListForUser(c.Request().Context(), p.ID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, newOrderResponses(orders))
}

// Get godoc
// @Summary Get an order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	order, err := h.orderService.Get(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, newOrderResponse(order))
}

// History godoc
// @Summary Status changes of an order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {array} model.OrderStatusLog
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id}/history [get]
func (h *OrderHandler) History(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	logs, err := h.orderService.History(c.Request().Context(), c.Param("id"), p)
	if err != nil {
		return fail(err)
	}
	if logs == nil {
		logs = []model.OrderStatusLog{}
	}
	return c.JSON(http.StatusOK, logs)
}

// ListAll godoc
// @Summary Every order, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} OrderResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/orders [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	orders, err := h.orderService.ListAll(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, newOrderResponses(orders))
}

// UpdateStatus godoc
// @Summary Change the status of an order
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	order, err := h.orderService.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status, p)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, newOrderResponse(order))
}
