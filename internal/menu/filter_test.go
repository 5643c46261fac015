package menu

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pizzeria/internal/model"
)

func sampleItems() []model.MenuItem {
	return []model.MenuItem{
		{ID: "1", Name: "Margherita", Description: "Tomato, mozzarella and basil", Price: decimal.RequireFromString("29.90"), Category: model.CategoryTraditional},
		{ID: "2", Name: "Pepperoni", Description: "Spicy pepperoni", Price: decimal.RequireFromString("32.90"), Category: model.CategoryPremium},
	}
}

func names(items []model.MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

func TestApply(t *testing.T) {
	items := sampleItems()

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"category premium", Filters{Category: "premium"}, []string{"Pepperoni"}},
		{"search marg", Filters{Search: "marg"}, []string{"Margherita"}},
		{"premium and marg", Filters{Category: "premium", Search: "marg"}, []string{}},
		{"all category", Filters{Category: "all"}, []string{"Margherita", "Pepperoni"}},
		{"no filters", Filters{}, []string{"Margherita", "Pepperoni"}},
		{"search in description", Filters{Search: "BASIL"}, []string{"Margherita"}},
		{"unknown category", Filters{Category: "sweet"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Apply(items, tt.filters)))
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	items := sampleItems()
	f := Filters{Search: "p", Category: "premium"}

	once := Apply(items, f)
	twice := Apply(once, f)

	assert.Equal(t, once, twice)
	assert.Equal(t, once, Apply(items, f))
}

func TestCategories(t *testing.T) {
	items := append(sampleItems(), model.MenuItem{ID: "3", Name: "Calabresa", Category: model.CategoryTraditional})

	assert.Equal(t, []string{"all", "traditional", "premium"}, Categories(items))
	assert.Equal(t, []string{"all"}, Categories(nil))
}

func TestNewListing_EmptyStates(t *testing.T) {
	l := NewListing(nil, Filters{})
	assert.Equal(t, EmptyCatalog, l.Empty)
	assert.Empty(t, l.Items)

	l = NewListing(sampleItems(), Filters{Search: "zzz"})
	assert.Equal(t, EmptyNoMatches, l.Empty)
	assert.Equal(t, 2, l.Total)
	assert.Equal(t, []string{"all", "traditional", "premium"}, l.Categories)

	l = NewListing(sampleItems(), Filters{})
	assert.Empty(t, l.Empty)
	assert.Len(t, l.Items, 2)
}
