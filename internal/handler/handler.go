package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"pizzeria/internal/auth"
	"pizzeria/internal/errors"
	"pizzeria/internal/model"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// fail converts a domain error into an echo HTTP error.
func fail(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func invalidBody() error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid request body",
		Code:  "INVALID_REQUEST",
	})
}

// bindAndValidate binds the body into req and runs struct validation.
// Validation failures become field errors keyed by the json field name
// reported by NewValidator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return invalidBody()
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if !stderrors.As(err, &verrs) {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: err.Error(),
				Code:  "VALIDATION_ERROR",
			})
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = describe(fe)
		}
		return fail(&errors.ValidationError{Fields: fields})
	}
	return nil
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "min":
		return name + " must have at least " + fe.Param() + " characters"
	case "oneof":
		return name + " must be one of " + fe.Param()
	}
	return name + " is invalid"
}

// currentProfile returns the profile loaded by the access middleware.
func currentProfile(c echo.Context) (*model.Profile, error) {
	p := auth.ProfileFrom(c)
	if p == nil {
		return nil, fail(errors.ErrUnauthenticated)
	}
	return p, nil
}
