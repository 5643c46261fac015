package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMenuItemNotFound is returned when a menu item does not exist.
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrMenuItemUnavailable is returned when a customer asks for a hidden item.
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	// ErrOrderNotFound is returned when an order does not exist or is not visible to the caller.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderImmutable is returned when changing a delivered or cancelled order.
	ErrOrderImmutable = errors.New("order can no longer change status")
	// ErrInvalidStatus is returned for a status outside the order vocabulary.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrEmptyCart is returned when checking out an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrProfileNotFound is returned when a user profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidRole is returned for a role outside client/admin.
	ErrInvalidRole = errors.New("invalid role")
	// ErrForbidden is returned when the caller lacks the required role.
	ErrForbidden = errors.New("forbidden")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
	Retry  bool              `json:"retry,omitempty"`
}

// ValidationError carries field-scoped messages the user can correct.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// RepositoryError wraps a persistence failure. Retryable marks read
// failures that exhausted automatic retries and may be retried by hand.
type RepositoryError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// AuthError is an authentication failure with a message safe to show users.
type AuthError struct {
	Code    string
	Message string
	Status  int
}

func (e *AuthError) Error() string {
	return e.Message
}

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = &AuthError{Code: "INVALID_CREDENTIALS", Message: "invalid email or password", Status: http.StatusUnauthorized}
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = &AuthError{Code: "EMAIL_TAKEN", Message: "this email is already registered", Status: http.StatusConflict}
	// ErrWeakPassword is returned when the password is too short.
	ErrWeakPassword = &AuthError{Code: "WEAK_PASSWORD", Message: "password must have at least 6 characters", Status: http.StatusBadRequest}
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = &AuthError{Code: "INVALID_REFRESH_TOKEN", Message: "invalid or expired refresh token", Status: http.StatusUnauthorized}
	// ErrUnauthenticated is returned when no valid session accompanies the request.
	ErrUnauthenticated = &AuthError{Code: "UNAUTHENTICATED", Message: "you need to sign in to continue", Status: http.StatusUnauthorized}
)

// StorageError is a local persistence failure. It is logged, never returned
// to the caller of the operation that triggered it.
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
	Retry      bool
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
		Retry:  e.Retry,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		httpErr := NewHTTPError(http.StatusUnprocessableEntity, "please correct the highlighted fields", "VALIDATION_ERROR")
		httpErr.Fields = validationErr.Fields
		return httpErr
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return NewHTTPError(authErr.Status, authErr.Message, authErr.Code)
	}

	switch {
	case errors.Is(err, ErrMenuItemNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MENU_ITEM_NOT_FOUND")
	case errors.Is(err, ErrMenuItemUnavailable):
		return NewHTTPError(http.StatusConflict, err.Error(), "MENU_ITEM_UNAVAILABLE")
	case errors.Is(err, ErrOrderNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ORDER_NOT_FOUND")
	case errors.Is(err, ErrOrderImmutable):
		return NewHTTPError(http.StatusConflict, err.Error(), "ORDER_IMMUTABLE")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrEmptyCart):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMPTY_CART")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	}

	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		httpErr := NewHTTPError(http.StatusServiceUnavailable, "the service is temporarily unavailable, please try again", "REPOSITORY_ERROR")
		httpErr.Retry = true
		return httpErr
	}

	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
