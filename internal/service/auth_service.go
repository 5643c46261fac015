package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pizzeria/internal/auth"
	"pizzeria/internal/cart"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
	"pizzeria/internal/realtime"
	"pizzeria/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// RegisterInput is the data needed to open a customer account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Address  string
}

// Session is the result of a successful sign-in.
type Session struct {
	AccessToken  string
	RefreshToken string
	Profile      *model.Profile
}

// SessionState pairs the cached snapshot of a user with the profile read
// from the database. Only Profile may be used for access decisions.
type SessionState struct {
	Cached  *auth.SessionSnapshot
	Profile *model.Profile
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.Profile, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string, access *auth.Claims) error
	Session(ctx context.Context, userID string) (*SessionState, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
	carts       *cart.Manager
	publisher   realtime.Publisher
	log         *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	profileRepo repository.ProfileRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	carts *cart.Manager,
	publisher realtime.Publisher,
	log *zap.Logger,
) AuthService {
	return &authService{
		profileRepo: profileRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
		carts:       carts,
		publisher:   publisher,
		log:         log.Named("auth"),
	}
}

// Register creates a customer profile with a hashed password. New profiles
// always get the client role.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.Profile, error) {
	email := normalizeEmail(in.Email)
	if len(in.Password) < minPasswordLength {
		return nil, apperrors.ErrWeakPassword
	}

	// Check if profile already exists
	_, err := s.profileRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if !errors.Is(err, apperrors.ErrProfileNotFound) {
		return nil, fmt.Errorf("check profile existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &model.Profile{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Role:         model.RoleClient,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.log.Info("profile registered", zap.String("user_id", profile.ID))
	return profile, nil
}

// Login authenticates a profile and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(profile.ID, profile.Email, string(profile.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(profile.ID, profile.Email, string(profile.Role))
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, profile.ID, auth.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	s.rememberSession(ctx, profile)
	// Reload the cart from its persisted copy on the next request.
	s.carts.Forget(profile.ID)
	s.publisher.Publish(profile.ID, realtime.Event{Type: realtime.EventSignedIn, Payload: profile})
	s.log.Info("signed in", zap.String("user_id", profile.ID))

	return &Session{AccessToken: accessToken, RefreshToken: refreshToken, Profile: profile}, nil
}

// RefreshToken validates a refresh token and returns a new access token.
// The role in the new token is read from the profile again.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || !claims.IsRefresh() {
		return "", apperrors.ErrInvalidRefreshToken
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.UserID {
		return "", apperrors.ErrInvalidRefreshToken
	}

	profile, err := s.profileRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return "", apperrors.ErrInvalidRefreshToken
		}
		return "", err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(profile.ID, profile.Email, string(profile.Role))
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the refresh token and the access token in use, drops the
// session snapshot and the in-memory cart. The persisted cart stays.
func (s *authService) Logout(ctx context.Context, refreshToken string, access *auth.Claims) error {
	if access == nil {
		return apperrors.ErrUnauthenticated
	}

	if refreshToken != "" {
		claims, err := s.jwtService.ValidateToken(refreshToken)
		if err != nil || !claims.IsRefresh() || claims.UserID != access.UserID {
			return apperrors.ErrInvalidRefreshToken
		}
		if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
			return fmt.Errorf("delete refresh token: %w", err)
		}
	}

	if access.ExpiresAt != nil {
		if ttl := time.Until(access.ExpiresAt.Time); ttl > 0 {
			if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, ttl); err != nil {
				return fmt.Errorf("blacklist access token: %w", err)
			}
		}
	}

	if err := s.tokenStore.DeleteSession(ctx, access.UserID); err != nil {
		s.log.Warn("delete session snapshot", zap.String("user_id", access.UserID), zap.Error(err))
	}
	s.carts.Forget(access.UserID)
	s.publisher.Publish(access.UserID, realtime.Event{Type: realtime.EventSignedOut})
	s.log.Info("signed out", zap.String("user_id", access.UserID))
	return nil
}

// Session returns the cached snapshot and the authoritative profile. The
// snapshot is refreshed when it no longer matches the profile.
func (s *authService) Session(ctx context.Context, userID string) (*SessionState, error) {
	cached, err := s.tokenStore.GetSession(ctx, userID)
	if err != nil {
		s.log.Warn("read session snapshot", zap.String("user_id", userID), zap.Error(err))
		cached = nil
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, err
	}

	if cached == nil || cached.Role != profile.Role || cached.Name != profile.Name || cached.Email != profile.Email {
		s.rememberSession(ctx, profile)
	}
	return &SessionState{Cached: cached, Profile: profile}, nil
}

func (s *authService) rememberSession(ctx context.Context, profile *model.Profile) {
	snapshot := auth.SessionSnapshot{
		UserID:   profile.ID,
		Name:     profile.Name,
		Email:    profile.Email,
		Role:     profile.Role,
		StoredAt: time.Now(),
	}
	if err := s.tokenStore.StoreSession(ctx, snapshot, auth.RefreshTokenExpiry); err != nil {
		s.log.Warn("store session snapshot", zap.String("user_id", profile.ID), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
