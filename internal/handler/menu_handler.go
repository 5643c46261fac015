package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/errors"
	"pizzeria/internal/menu"
	"pizzeria/internal/model"
	"pizzeria/internal/service"
)

// MenuHandler serves the customer menu and the back-office editor.
type MenuHandler struct {
	menuService service.MenuService
}

// NewMenuHandler creates a new menu handler.
func NewMenuHandler(menuService service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// MenuResponse is one menu query result. State is "success" here; failed
// loads answer with MenuErrorResponse.
type MenuResponse struct {
	State string `json:"state"`
	*menu.Listing
}

// MenuErrorResponse is returned when the menu could not be read.
type MenuErrorResponse struct {
	State string `json:"state"`
	errors.ErrorResponse
}

// MenuItemRequest is the editable content of a menu item. Price is the
// text typed by the operator, comma or dot decimals.
type MenuItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Ingredients []string `json:"ingredients"`
	Available   *bool    `json:"available"`
}

// List godoc
// @Summary List available pizzas
// @Tags menu
// @Produce json
// @Param search query string false "Case-insensitive text matched against name and description"
// @Param category query string false "Category, or all"
// @Success 200 {object} MenuResponse
// @Failure 503 {object} MenuErrorResponse
// @Router /menu [get]
func (h *MenuHandler) List(c echo.Context) error {
	var filters menu.Filters
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &filters); err != nil {
		return invalidBody()
	}
	listing, err := h.menuService.ListAvailableItems(c.Request().Context(), filters)
	return h.respondListing(c, listing, err)
}

// Refresh godoc
// @Summary Reload the menu, bypassing the cache
// @Tags menu
// @Produce json
// @Param search query string false "Search text"
// @Param category query string false "Category, or all"
// @Success 200 {object} MenuResponse
// @Failure 503 {object} MenuErrorResponse
// @Router /menu/refresh [post]
func (h *MenuHandler) Refresh(c echo.Context) error {
	var filters menu.Filters
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &filters); err != nil {
		return invalidBody()
	}
	listing, err := h.menuService.Refresh(c.Request().Context(), filters)
	return h.respondListing(c, listing, err)
}

func (h *MenuHandler) respondListing(c echo.Context, listing *menu.Listing, err error) error {
	if err != nil {
		var repoErr *errors.RepositoryError
		if stderrors.As(err, &repoErr) {
			httpErr := errors.MapErrorToHTTP(err)
			return c.JSON(http.StatusServiceUnavailable, MenuErrorResponse{
				State:         string(menu.StateError),
				ErrorResponse: httpErr.ToErrorResponse(),
			})
		}
		return fail(err)
	}
	return c.JSON(http.StatusOK, MenuResponse{State: string(menu.StateSuccess), Listing: listing})
}

// ListAll godoc
// @Summary List every menu item, hidden ones included
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.MenuItem
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/menu [get]
func (h *MenuHandler) ListAll(c echo.Context) error {
	items, err := h.menuService.ListAll(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get one menu item for editing
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Success 200 {object} menu.Draft
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/menu/{id} [get]
func (h *MenuHandler) Get(c echo.Context) error {
	item, err := h.menuService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, menu.DraftFrom(item))
}

// Create godoc
// @Summary Create a menu item
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MenuItemRequest true "Menu item"
// @Success 201 {object} model.MenuItem
// @Failure 422 {object} errors.ErrorResponse
// @Router /admin/menu [post]
func (h *MenuHandler) Create(c echo.Context) error {
	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}
	item, err := h.submit(c, "", req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary Update a menu item
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Param request body MenuItemRequest true "Menu item"
// @Success 200 {object} model.MenuItem
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /admin/menu/{id} [put]
func (h *MenuHandler) Update(c echo.Context) error {
	var req MenuItemRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}
	item, err := h.submit(c, c.Param("id"), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Deactivate godoc
// @Summary Hide a menu item from customers
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Menu item ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/menu/{id} [delete]
func (h *MenuHandler) Deactivate(c echo.Context) error {
	if err := h.menuService.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "menu item deactivated"})
}

// submit drives the form the same way the editor does: every field is set
// through the form, then the draft is submitted once. An update without
// "available" keeps the stored visibility.
func (h *MenuHandler) submit(c echo.Context, id string, req MenuItemRequest) (*model.MenuItem, error) {
	available := true
	if id != "" {
		existing, err := h.menuService.Get(c.Request().Context(), id)
		if err != nil {
			return nil, err
		}
		available = existing.Available
	}
	if req.Available != nil {
		available = *req.Available
	}
	form := menu.NewForm(menu.Draft{ID: id, Available: available})
	fields := map[string]string{
		menu.FieldName:        req.Name,
		menu.FieldDescription: req.Description,
		menu.FieldPrice:       req.Price,
		menu.FieldImage:       req.Image,
		menu.FieldCategory:    req.Category,
	}
	for field, value := range fields {
		if err := form.Set(field, value); err != nil {
			return nil, err
		}
	}
	for _, ingredient := range req.Ingredients {
		form.AddIngredient(ingredient)
	}
	return h.menuService.Submit(c.Request().Context(), form)
}
