package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria/internal/cache"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
)

func newStore(t *testing.T) *TokenStore {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewTokenStore(cache.NewFromRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret")

	access, err := svc.GenerateAccessToken("u-1", "ana@example.com", "client")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.False(t, claims.IsRefresh())
	assert.NotEmpty(t, claims.ID)

	tokenID, refresh, err := svc.GenerateRefreshToken("u-1", "ana@example.com", "client")
	require.NoError(t, err)
	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, claims.IsRefresh())
	assert.Equal(t, tokenID, claims.ID)

	_, err = NewJWTService("other").ValidateToken(access)
	assert.Error(t, err)
}

func TestCanAccess(t *testing.T) {
	client := &model.Profile{Role: model.RoleClient}
	admin := &model.Profile{Role: model.RoleAdmin}

	tests := []struct {
		route   Route
		profile *model.Profile
		want    bool
	}{
		{RoutePublic, nil, true},
		{RoutePublic, client, true},
		{RouteCustomer, nil, false},
		{RouteCustomer, client, true},
		{RouteCustomer, admin, true},
		{RouteAdmin, nil, false},
		{RouteAdmin, client, false},
		{RouteAdmin, admin, true},
		{Route(42), admin, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanAccess(tt.route, tt.profile), "%s %v", tt.route, tt.profile)
	}
}

func TestTokenStore(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "t1", "u-1", time.Hour))
	userID, err := store.GetRefreshToken(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	require.NoError(t, store.DeleteRefreshToken(ctx, "t1"))
	_, err = store.GetRefreshToken(ctx, "t1")
	assert.Error(t, err)

	require.NoError(t, store.BlacklistAccessToken(ctx, "a1", time.Hour))
	revoked, _ := store.IsAccessTokenBlacklisted(ctx, "a1")
	assert.True(t, revoked)

	snap, err := store.GetSession(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, snap)

	require.NoError(t, store.StoreSession(ctx, SessionSnapshot{UserID: "u-1", Name: "Ana", Role: model.RoleClient}, time.Hour))
	snap, err = store.GetSession(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "Ana", snap.Name)

	require.NoError(t, store.DeleteSession(ctx, "u-1"))
	snap, _ = store.GetSession(ctx, "u-1")
	assert.Nil(t, snap)
}

type stubProfiles map[string]*model.Profile

func (s stubProfiles) FindByID(_ context.Context, id string) (*model.Profile, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrProfileNotFound
}

func TestRequireAccess(t *testing.T) {
	profiles := stubProfiles{
		"client": {ID: "client", Role: model.RoleClient},
		"admin":  {ID: "admin", Role: model.RoleAdmin},
	}

	tests := []struct {
		name   string
		route  Route
		claims *Claims
		status int
	}{
		{"public without session", RoutePublic, nil, http.StatusOK},
		{"customer without session", RouteCustomer, nil, http.StatusUnauthorized},
		{"customer signed in", RouteCustomer, &Claims{UserID: "client"}, http.StatusOK},
		{"admin route for client", RouteAdmin, &Claims{UserID: "client"}, http.StatusForbidden},
		{"admin claim is not trusted", RouteAdmin, &Claims{UserID: "client", Role: "admin"}, http.StatusForbidden},
		{"admin route for admin", RouteAdmin, &Claims{UserID: "admin"}, http.StatusOK},
		{"deleted profile", RouteCustomer, &Claims{UserID: "ghost"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			if tt.claims != nil {
				c.Set("user", tt.claims)
			}

			h := RequireAccess(tt.route, profiles)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			err := h(c)

			if tt.status == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.Code)
		})
	}
}

func TestTokenParser(t *testing.T) {
	svc := NewJWTService("secret")
	store := newStore(t)
	parse := TokenParser(svc, store)
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	access, _ := svc.GenerateAccessToken("u-1", "a@b.c", "client")
	got, err := parse(c, access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.(*Claims).UserID)

	_, refresh, _ := svc.GenerateRefreshToken("u-1", "a@b.c", "client")
	_, err = parse(c, refresh)
	assert.Error(t, err)

	claims, _ := svc.ValidateToken(access)
	require.NoError(t, store.BlacklistAccessToken(context.Background(), claims.ID, time.Minute))
	_, err = parse(c, access)
	assert.Error(t, err)
}
