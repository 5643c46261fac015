package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pizzeria/internal/model"
	"pizzeria/internal/service"
)

// ProfileHandler handles profile and user management endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest holds the editable contact fields.
type UpdateProfileRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateRoleRequest sets the role of a user.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=client admin"`
}

// Me godoc
// @Summary Profile of the signed-in user
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Router /profile [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	profile, err := h.profileService.Get(c.Request().Context(), p.ID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update contact details
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Contact details"
// @Success 200 {object} model.Profile
// @Failure 422 {object} errors.ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	p, err := currentProfile(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	profile, err := h.profileService.UpdateSelf(c.Request().Context(), p.ID, service.ContactUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// List godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Profile
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *ProfileHandler) List(c echo.Context) error {
	profiles, err := h.profileService.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	return c.JSON(http.StatusOK, profiles)
}

// UpdateRole godoc
// @Summary Promote or demote a user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateRoleRequest true "Role"
// @Success 200 {object} model.Profile
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /admin/users/{id}/role [patch]
func (h *ProfileHandler) UpdateRole(c echo.Context) error {
	var req UpdateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	profile, err := h.profileService.UpdateRole(c.Request().Context(), c.Param("id"), req.Role)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}
