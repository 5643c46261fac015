package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/menu"
	"pizzeria/internal/model"
	"pizzeria/internal/service"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func serve(e *echo.Echo, method, target, body string, route string, h echo.HandlerFunc, profile *model.Profile) *httptest.ResponseRecorder {
	e.Add(method, route, h, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if profile != nil {
				c.Set("profile", profile)
			}
			return next(c)
		}
	})
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type stubMenuService struct {
	service.MenuService
	listing   *menu.Listing
	stored    *model.MenuItem
	err       error
	submitted *menu.Form
}

func (s *stubMenuService) Get(_ context.Context, id string) (*model.MenuItem, error) {
	if s.stored == nil || s.stored.ID != id {
		return nil, apperrors.ErrMenuItemNotFound
	}
	return s.stored, nil
}

func (s *stubMenuService) ListAvailableItems(_ context.Context, f menu.Filters) (*menu.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	return menu.NewListing(s.listing.Items, f), nil
}

func (s *stubMenuService) Submit(ctx context.Context, form *menu.Form) (*model.MenuItem, error) {
	s.submitted = form
	return form.Submit(ctx, noopWriter{})
}

type noopWriter struct{}

func (noopWriter) Create(_ context.Context, item *model.MenuItem) error {
	item.ID = "created"
	return nil
}

func (noopWriter) Update(context.Context, *model.MenuItem) error { return nil }

func TestMenuHandler_List(t *testing.T) {
	svc := &stubMenuService{listing: &menu.Listing{Items: []model.MenuItem{
		{ID: "1", Name: "Margherita", Description: "Classic", Category: model.CategoryTraditional},
		{ID: "2", Name: "Brigadeiro", Description: "Chocolate", Category: model.CategorySweet},
	}}}
	h := NewMenuHandler(svc)

	rec := serve(newTestEcho(), http.MethodGet, "/api/menu?category=sweet", "", "/api/menu", h.List, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "success", body["state"])
	assert.Len(t, body["items"], 1)
	assert.Equal(t, []interface{}{"all", "traditional", "sweet"}, body["categories"])
}

func TestMenuHandler_List_FailureIsRetryable(t *testing.T) {
	svc := &stubMenuService{err: &apperrors.RepositoryError{Op: "list", Err: errors.New("down"), Retryable: true}}
	h := NewMenuHandler(svc)

	rec := serve(newTestEcho(), http.MethodGet, "/api/menu", "", "/api/menu", h.List, nil)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "error", body["state"])
	assert.Equal(t, true, body["retry"])
	assert.NotContains(t, rec.Body.String(), "items")
}

func TestMenuHandler_Create(t *testing.T) {
	svc := &stubMenuService{}
	h := NewMenuHandler(svc)

	body := `{"name":"Quattro","description":"Four cheeses","price":"1.234,50","image":"https://img.example.com/q.jpg","category":"premium","ingredients":["gorgonzola"," ","parmesan"]}`
	rec := serve(newTestEcho(), http.MethodPost, "/api/admin/menu", body, "/api/admin/menu", h.Create, nil)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, "created", out["id"])
	assert.Equal(t, "1234.5", out["price"])
	assert.Equal(t, true, out["available"])
	assert.Equal(t, []string{"gorgonzola", "parmesan"}, svc.submitted.Draft().Ingredients)
}

func TestMenuHandler_Create_FieldErrors(t *testing.T) {
	h := NewMenuHandler(&stubMenuService{})

	body := `{"name":"","description":"x","price":"abc","image":"not a url","category":"all"}`
	rec := serve(newTestEcho(), http.MethodPost, "/api/admin/menu", body, "/api/admin/menu", h.Create, nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := decode(t, rec)["fields"].(map[string]interface{})
	assert.Contains(t, fields, menu.FieldName)
	assert.Contains(t, fields, menu.FieldPrice)
	assert.Contains(t, fields, menu.FieldImage)
	assert.Contains(t, fields, menu.FieldCategory)
	assert.NotContains(t, fields, menu.FieldDescription)
}

func TestMenuHandler_Update_KeepsStoredAvailability(t *testing.T) {
	body := `{"name":"Calabresa","description":"Sausage","price":"42,90","image":"https://img.example.com/c.jpg","category":"traditional"}`
	tests := []struct {
		name      string
		stored    bool
		body      string
		available bool
	}{
		{"hidden stays hidden", false, body, false},
		{"visible stays visible", true, body, true},
		{"explicit value wins", false, strings.TrimSuffix(body, "}") + `,"available":true}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubMenuService{stored: &model.MenuItem{ID: "7", Name: "Calabresa", Available: tt.stored}}
			h := NewMenuHandler(svc)

			rec := serve(newTestEcho(), http.MethodPut, "/api/admin/menu/7", tt.body, "/api/admin/menu/:id", h.Update, nil)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.available, decode(t, rec)["available"])
			assert.Equal(t, tt.available, svc.submitted.Draft().Available)
		})
	}
}

func TestMenuHandler_Update_UnknownItem(t *testing.T) {
	svc := &stubMenuService{}
	h := NewMenuHandler(svc)

	body := `{"name":"Calabresa","description":"Sausage","price":"42,90","image":"https://img.example.com/c.jpg","category":"traditional"}`
	rec := serve(newTestEcho(), http.MethodPut, "/api/admin/menu/9", body, "/api/admin/menu/:id", h.Update, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Nil(t, svc.submitted)
}

type stubAuthService struct {
	service.AuthService
	registered service.RegisterInput
}

func (s *stubAuthService) Register(_ context.Context, in service.RegisterInput) (*model.Profile, error) {
	s.registered = in
	if in.Email == "taken@example.com" {
		return nil, apperrors.ErrEmailTaken
	}
	return &model.Profile{ID: "p1", Email: in.Email, Name: in.Name, Role: model.RoleClient}, nil
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"created", `{"email":"new@example.com","password":"secret1","name":"Ana"}`, http.StatusCreated, ""},
		{"missing name", `{"email":"new@example.com","password":"secret1"}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"bad email", `{"email":"nope","password":"secret1","name":"Ana"}`, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"taken", `{"email":"taken@example.com","password":"secret1","name":"Ana"}`, http.StatusConflict, "EMAIL_TAKEN"},
		{"malformed", `{`, http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuthService{})
			rec := serve(newTestEcho(), http.MethodPost, "/api/auth/register", tt.body, "/api/auth/register", h.Register, nil)

			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, decode(t, rec)["code"])
			}
		})
	}
}

type stubOrderService struct {
	service.OrderService
	err error
}

func (s *stubOrderService) Checkout(_ context.Context, userID string) (*model.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Order{
		ID:          "o1",
		UserID:      userID,
		Status:      model.OrderStatusPending,
		Total:       decimal.RequireFromString("62.80"),
		DeliveryFee: decimal.RequireFromString("5.90"),
	}, nil
}

func (s *stubOrderService) UpdateStatus(_ context.Context, id, status string, _ *model.Profile) (*model.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Order{ID: id, Status: model.OrderStatus(status)}, nil
}

func TestOrderHandler_Checkout(t *testing.T) {
	h := NewOrderHandler(&stubOrderService{})
	customer := &model.Profile{ID: "c1", Role: model.RoleClient}

	rec := serve(newTestEcho(), http.MethodPost, "/api/orders", "", "/api/orders", h.Checkout, customer)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "o1", body["id"])
	assert.Equal(t, "68.7", body["amount_due"])
	presentation := body["presentation"].(map[string]interface{})
	assert.Equal(t, "Pending", presentation["label"])
	assert.Equal(t, float64(0), body["progress"])
}

func TestOrderHandler_Checkout_Errors(t *testing.T) {
	customer := &model.Profile{ID: "c1"}

	rec := serve(newTestEcho(), http.MethodPost, "/api/orders", "", "/api/orders",
		NewOrderHandler(&stubOrderService{err: apperrors.ErrEmptyCart}).Checkout, customer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EMPTY_CART", decode(t, rec)["code"])

	rec = serve(newTestEcho(), http.MethodPost, "/api/orders", "", "/api/orders",
		NewOrderHandler(&stubOrderService{}).Checkout, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	admin := &model.Profile{ID: "a1", Role: model.RoleAdmin}

	rec := serve(newTestEcho(), http.MethodPatch, "/api/admin/orders/o1/status", `{"status":"delivered"}`,
		"/api/admin/orders/:id/status", NewOrderHandler(&stubOrderService{}).UpdateStatus, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(100), decode(t, rec)["progress"])

	rec = serve(newTestEcho(), http.MethodPatch, "/api/admin/orders/o1/status", `{"status":"pending"}`,
		"/api/admin/orders/:id/status", NewOrderHandler(&stubOrderService{err: apperrors.ErrOrderImmutable}).UpdateStatus, admin)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ORDER_IMMUTABLE", decode(t, rec)["code"])
}

func TestValidator_ReportsJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&AddItemRequest{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "item_id", verrs[0].Field())

	err = v.Validate(&LoginRequest{Email: "nope", Password: "x"})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "email", verrs[0].Field())
	assert.NoError(t, v.Validate(&LoginRequest{Email: "a@b.co", Password: "x"}))
}

func TestBindAndValidate_FieldErrorsUseJSONNames(t *testing.T) {
	h := NewCartHandler(nil)

	rec := serve(newTestEcho(), http.MethodPost, "/api/cart/items", `{}`, "/api/cart/items", h.Add, &model.Profile{ID: "u-1"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := decode(t, rec)["fields"].(map[string]interface{})
	assert.Equal(t, "item_id is required", fields["item_id"])
}
