package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pizzeria/internal/cart"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
)

func TestCartService_AddItem(t *testing.T) {
	repo := new(MockMenuRepository)
	items := testMenu()
	hidden := items[2]
	hidden.Available = false
	repo.On("FindByID", mock.Anything, "1").Return(&items[0], nil)
	repo.On("FindByID", mock.Anything, "3").Return(&hidden, nil)
	repo.On("FindByID", mock.Anything, "nope").Return(nil, apperrors.ErrMenuItemNotFound)

	store := newMemoryCartStore()
	svc := NewCartService(cart.NewManager(store, zap.NewNop(), nil), repo, zap.NewNop())
	ctx := context.Background()

	snap, err := svc.AddItem(ctx, "user-1", "1")
	require.NoError(t, err)
	snap, err = svc.AddItem(ctx, "user-1", "1")
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.ItemCount)
	assert.True(t, decimal.RequireFromString("79.80").Equal(snap.TotalPrice))

	_, err = svc.AddItem(ctx, "user-1", "3")
	assert.ErrorIs(t, err, apperrors.ErrMenuItemUnavailable)

	_, err = svc.AddItem(ctx, "user-1", "nope")
	assert.ErrorIs(t, err, apperrors.ErrMenuItemNotFound)

	assert.Equal(t, 2, svc.Get(ctx, "user-1").ItemCount)
	assert.Equal(t, 0, svc.Get(ctx, "user-2").ItemCount)

	stored, _ := store.Load(ctx, "user-1")
	assert.NotEmpty(t, stored)
}

func TestCartService_QuantityOperations(t *testing.T) {
	repo := new(MockMenuRepository)
	items := testMenu()
	repo.On("FindByID", mock.Anything, "1").Return(&items[0], nil)
	repo.On("FindByID", mock.Anything, "2").Return(&items[1], nil)
	svc := NewCartService(cart.NewManager(newMemoryCartStore(), zap.NewNop(), nil), repo, zap.NewNop())
	ctx := context.Background()

	_, _ = svc.AddItem(ctx, "u", "1")
	_, _ = svc.AddItem(ctx, "u", "2")

	snap := svc.Increase(ctx, "u", "2")
	assert.Equal(t, 3, snap.ItemCount)

	snap = svc.Decrease(ctx, "u", "1")
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "2", snap.Lines[0].Item.ID)

	snap = svc.Remove(ctx, "u", "2")
	assert.Empty(t, snap.Lines)

	_, _ = svc.AddItem(ctx, "u", "1")
	snap = svc.Clear(ctx, "u")
	assert.Equal(t, 0, snap.ItemCount)
	assert.True(t, snap.TotalPrice.IsZero())
}

func TestCartService_AddItemCopiesItem(t *testing.T) {
	repo := new(MockMenuRepository)
	item := &model.MenuItem{ID: "1", Name: "Margherita", Price: decimal.RequireFromString("39.90"), Available: true}
	repo.On("FindByID", mock.Anything, "1").Return(item, nil)
	svc := NewCartService(cart.NewManager(newMemoryCartStore(), zap.NewNop(), nil), repo, zap.NewNop())

	_, err := svc.AddItem(context.Background(), "u", "1")
	require.NoError(t, err)
	item.Price = decimal.RequireFromString("99.00")

	snap := svc.Get(context.Background(), "u")
	assert.True(t, decimal.RequireFromString("39.90").Equal(snap.Lines[0].Item.Price))
}
