package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category is one of the fixed menu sections.
type Category string

const (
	CategoryTraditional  Category = "traditional"
	CategoryPremium      Category = "premium"
	CategoryVegetarian   Category = "vegetarian"
	CategorySweet        Category = "sweet"
	CategoryStuffedCrust Category = "stuffed-crust"
)

// CategoryAll is the filter sentinel that disables category matching.
const CategoryAll = "all"

// Categories lists every category a menu item may be filed under.
var Categories = []Category{
	CategoryTraditional,
	CategoryPremium,
	CategoryVegetarian,
	CategorySweet,
	CategoryStuffedCrust,
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// MenuItem is a pizza offered by the restaurant.
// Unavailable items are hidden from customers but never removed, so
// historical order lines keep resolving.
type MenuItem struct {
	ID          string          `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Image       string          `json:"image" gorm:"size:1024;not null"`
	Category    Category        `json:"category" gorm:"type:varchar(32);not null;index"`
	Ingredients []string        `json:"ingredients" gorm:"type:text;serializer:json"`
	Available   bool            `json:"available" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate sets the id before inserting the record.
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
