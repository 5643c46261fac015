package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
)

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	UpdateContact(ctx context.Context, id, name, phone, address string) error
	UpdateRole(ctx context.Context, id string, role model.Role) error
	List(ctx context.Context) ([]model.Profile, error)
	Count(ctx context.Context) (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create creates a new profile. A duplicate email yields ErrEmailTaken.
func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	err := r.db.WithContext(ctx).Create(profile).Error
	if err != nil && isDuplicateKey(err) {
		return apperrors.ErrEmailTaken
	}
	return wrap("create profile", err, nil)
}

// FindByID finds a profile by ID.
func (r *profileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, wrap("find profile", err, apperrors.ErrProfileNotFound)
	}
	return &profile, nil
}

// FindByEmail finds a profile by email.
func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, wrap("find profile by email", err, apperrors.ErrProfileNotFound)
	}
	return &profile, nil
}

// UpdateContact changes the fields a user may edit on their own profile.
func (r *profileRepository) UpdateContact(ctx context.Context, id, name, phone, address string) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "phone": phone, "address": address})
	if res.Error != nil {
		return wrap("update profile", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// UpdateRole changes the role of a profile.
func (r *profileRepository) UpdateRole(ctx context.Context, id string, role model.Role) error {
	res := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("id = ?", id).
		Update("role", role)
	if res.Error != nil {
		return wrap("update role", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// List lists every profile, newest first.
func (r *profileRepository) List(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, wrap("list profiles", err, nil)
	}
	return profiles, nil
}

// Count returns the number of profiles.
func (r *profileRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Profile{}).Count(&n).Error; err != nil {
		return 0, wrap("count profiles", err, nil)
	}
	return n, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}
