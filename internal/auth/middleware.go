package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
)

const (
	claimsContextKey  = "user"
	profileContextKey = "profile"
)

// ProfileFinder loads the authoritative profile of a user.
type ProfileFinder interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
}

// TokenParser returns an echo-jwt ParseTokenFunc that accepts only
// non-revoked access tokens.
func TokenParser(jwtService *JWTService, store TokenStoreInterface) func(c echo.Context, token string) (interface{}, error) {
	return func(c echo.Context, token string) (interface{}, error) {
		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			return nil, err
		}
		if claims.IsRefresh() {
			return nil, errors.New("refresh token used as access token")
		}
		if revoked, _ := store.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID); revoked {
			return nil, errors.New("token revoked")
		}
		return claims, nil
	}
}

// RequireAccess checks the route class against the profile loaded from
// profiles on every request. It runs after the jwt middleware.
func RequireAccess(route Route, profiles ProfileFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if route == RoutePublic {
				return next(c)
			}

			claims := ClaimsFrom(c)
			if claims == nil {
				return deny(apperrors.ErrUnauthenticated)
			}

			profile, err := profiles.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, apperrors.ErrProfileNotFound) {
					return deny(apperrors.ErrUnauthenticated)
				}
				return deny(err)
			}

			if !CanAccess(route, profile) {
				return deny(apperrors.ErrForbidden)
			}

			c.Set(profileContextKey, profile)
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified token claims, or nil.
func ClaimsFrom(c echo.Context) *Claims {
	claims, _ := c.Get(claimsContextKey).(*Claims)
	return claims
}

// ProfileFrom returns the profile loaded by RequireAccess, or nil.
func ProfileFrom(c echo.Context) *model.Profile {
	profile, _ := c.Get(profileContextKey).(*model.Profile)
	return profile
}

func deny(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		return echo.NewHTTPError(http.StatusServiceUnavailable, httpErr.ToErrorResponse())
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
