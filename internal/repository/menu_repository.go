package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
)

// MenuRepository defines menu item persistence operations.
type MenuRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	Update(ctx context.Context, item *model.MenuItem) error
	FindByID(ctx context.Context, id string) (*model.MenuItem, error)
	ListAvailable(ctx context.Context) ([]model.MenuItem, error)
	ListAll(ctx context.Context) ([]model.MenuItem, error)
	SetAvailable(ctx context.Context, id string, available bool) error
}

type menuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository.
func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

// editableColumns are the columns an admin edit may change.
var editableColumns = []string{"name", "description", "price", "image", "category", "ingredients", "available", "updated_at"}

// Create creates a new menu item.
func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	return wrap("create menu item", r.db.WithContext(ctx).Create(item).Error, nil)
}

// Update overwrites the editable columns of an existing item.
func (r *menuRepository) Update(ctx context.Context, item *model.MenuItem) error {
	item.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&model.MenuItem{}).
		Where("id = ?", item.ID).
		Select(editableColumns).
		Updates(item)
	if res.Error != nil {
		return wrap("update menu item", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrMenuItemNotFound
	}
	return nil
}

// FindByID finds a menu item by ID, available or not.
func (r *menuRepository) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, wrap("find menu item", err, apperrors.ErrMenuItemNotFound)
	}
	return &item, nil
}

// ListAvailable lists the items customers can order.
func (r *menuRepository) ListAvailable(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, wrap("list available menu items", err, nil)
	}
	return items, nil
}

// ListAll lists every item including unavailable ones.
func (r *menuRepository) ListAll(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, wrap("list menu items", err, nil)
	}
	return items, nil
}

// SetAvailable flips the availability flag. Items are never deleted.
func (r *menuRepository) SetAvailable(ctx context.Context, id string, available bool) error {
	res := r.db.WithContext(ctx).Model(&model.MenuItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"available": available, "updated_at": time.Now()})
	if res.Error != nil {
		return wrap("set menu item availability", res.Error, nil)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrMenuItemNotFound
	}
	return nil
}
