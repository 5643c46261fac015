package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"pizzeria/internal/cache"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/menu"
	"pizzeria/internal/model"
	"pizzeria/internal/repository"
)

// SeedAdmin is the back-office account created by a seed.
type SeedAdmin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Catalog is the seed document: an optional administrator and menu drafts.
type Catalog struct {
	Admin *SeedAdmin   `yaml:"admin"`
	Menu  []menu.Draft `yaml:"menu"`
}

// SeedResult reports what a seed changed.
type SeedResult struct {
	Created int  `json:"created"`
	Updated int  `json:"updated"`
	Admin   bool `json:"admin"`
}

// ParseCatalog decodes a YAML seed document.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}

// SeedService loads a catalog into the database.
type SeedService interface {
	Seed(ctx context.Context, catalog *Catalog) (*SeedResult, error)
}

type seedService struct {
	menuRepo    repository.MenuRepository
	profileRepo repository.ProfileRepository
	cache       *cache.Client
	log         *zap.Logger
}

// NewSeedService creates a new seed service.
func NewSeedService(menuRepo repository.MenuRepository, profileRepo repository.ProfileRepository, cache *cache.Client, log *zap.Logger) SeedService {
	return &seedService{menuRepo: menuRepo, profileRepo: profileRepo, cache: cache, log: log.Named("seed")}
}

// Seed creates or updates menu items matched by name and makes sure the
// admin account exists with the admin role. Each item goes through the
// same validation as the back-office form.
func (s *seedService) Seed(ctx context.Context, catalog *Catalog) (*SeedResult, error) {
	existing, err := s.menuRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(existing))
	for _, item := range existing {
		byName[strings.ToLower(item.Name)] = item.ID
	}

	result := &SeedResult{}
	for _, draft := range catalog.Menu {
		if id, ok := byName[strings.ToLower(strings.TrimSpace(draft.Name))]; ok && draft.ID == "" {
			draft.ID = id
		}
		item, err := menu.NewForm(draft).Submit(ctx, s.menuRepo)
		if err != nil {
			return result, fmt.Errorf("seed menu item %q: %w", draft.Name, err)
		}
		if draft.ID != "" {
			result.Updated++
		} else {
			result.Created++
			byName[strings.ToLower(item.Name)] = item.ID
		}
	}

	if catalog.Admin != nil {
		if err := s.ensureAdmin(ctx, catalog.Admin); err != nil {
			return result, err
		}
		result.Admin = true
	}

	_ = s.cache.Delete(ctx, menuCacheKey)
	s.log.Info("catalog seeded",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Bool("admin", result.Admin))
	return result, nil
}

func (s *seedService) ensureAdmin(ctx context.Context, admin *SeedAdmin) error {
	email := normalizeEmail(admin.Email)
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if profile.Role == model.RoleAdmin {
			return nil
		}
		return s.profileRepo.UpdateRole(ctx, profile.ID, model.RoleAdmin)
	case !errors.Is(err, apperrors.ErrProfileNotFound):
		return err
	}

	if len(admin.Password) < minPasswordLength {
		return apperrors.ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.profileRepo.Create(ctx, &model.Profile{
		Email:        email,
		Name:         admin.Name,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	})
}
