package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		retry  bool
	}{
		{"wrapped not found", fmt.Errorf("get item: %w", ErrMenuItemNotFound), http.StatusNotFound, "MENU_ITEM_NOT_FOUND", false},
		{"immutable order", ErrOrderImmutable, http.StatusConflict, "ORDER_IMMUTABLE", false},
		{"empty cart", ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART", false},
		{"auth error", ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN", false},
		{"repository error", &RepositoryError{Op: "list menu", Err: errors.New("dial tcp"), Retryable: true}, http.StatusServiceUnavailable, "REPOSITORY_ERROR", true},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.retry, httpErr.ToErrorResponse().Retry)
		})
	}
}

func TestMapErrorToHTTP_ValidationFields(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"name": "name is required"}}

	httpErr := MapErrorToHTTP(fmt.Errorf("submit: %w", err))

	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
	assert.Equal(t, "name is required", httpErr.ToErrorResponse().Fields["name"])
}

func TestAuthErrorMessagesHideBackendText(t *testing.T) {
	assert.Equal(t, "invalid email or password", ErrInvalidCredentials.Error())
	assert.NotContains(t, ErrWeakPassword.Error(), "bcrypt")
}
