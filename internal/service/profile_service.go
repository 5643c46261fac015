package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pizzeria/internal/cache"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
	"pizzeria/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// ContactUpdate holds the fields a customer may change on their profile.
type ContactUpdate struct {
	Name    string
	Phone   string
	Address string
}

// ProfileService exposes profile reads and edits.
type ProfileService interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
	UpdateSelf(ctx context.Context, id string, in ContactUpdate) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
	UpdateRole(ctx context.Context, id, role string) (*model.Profile, error)
}

type profileService struct {
	repo  repository.ProfileRepository
	cache *cache.Client
	log   *zap.Logger
}

// NewProfileService builds a ProfileService with repository and cache.
func NewProfileService(repo repository.ProfileRepository, cache *cache.Client, log *zap.Logger) ProfileService {
	return &profileService{repo: repo, cache: cache, log: log.Named("profile")}
}

func (s *profileService) cacheKey(id string) string {
	return fmt.Sprintf("profile:%s", id)
}

// Get retrieves a profile by ID with caching. The cached copy is for
// display only; access checks read the repository directly.
func (s *profileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Profile
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(profile); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, profileCacheTTL)
	}
	return profile, nil
}

// UpdateSelf changes contact details. Email and role are not editable here.
func (s *profileService) UpdateSelf(ctx context.Context, id string, in ContactUpdate) (*model.Profile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &apperrors.ValidationError{Fields: map[string]string{"name": "name is required"}}
	}
	if err := s.repo.UpdateContact(ctx, id, name, strings.TrimSpace(in.Phone), strings.TrimSpace(in.Address)); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return s.repo.FindByID(ctx, id)
}

func (s *profileService) List(ctx context.Context) ([]model.Profile, error) {
	return s.repo.List(ctx)
}

// UpdateRole promotes or demotes a user. The change applies to the next
// request of that user since roles are read per request.
func (s *profileService) UpdateRole(ctx context.Context, id, role string) (*model.Profile, error) {
	r := model.Role(role)
	if !r.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	if err := s.repo.UpdateRole(ctx, id, r); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	s.log.Info("role changed", zap.String("user_id", id), zap.String("role", role))
	return s.repo.FindByID(ctx, id)
}
