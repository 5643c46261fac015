package service

import (
	"context"

	"go.uber.org/zap"

	"pizzeria/internal/cart"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/repository"
)

// CartService exposes the signed-in customer's cart.
type CartService interface {
	Get(ctx context.Context, userID string) cart.Snapshot
	AddItem(ctx context.Context, userID, itemID string) (cart.Snapshot, error)
	Remove(ctx context.Context, userID, itemID string) cart.Snapshot
	Increase(ctx context.Context, userID, itemID string) cart.Snapshot
	Decrease(ctx context.Context, userID, itemID string) cart.Snapshot
	Clear(ctx context.Context, userID string) cart.Snapshot
}

type cartService struct {
	carts    *cart.Manager
	menuRepo repository.MenuRepository
	log      *zap.Logger
}

// NewCartService creates a new cart service.
func NewCartService(carts *cart.Manager, menuRepo repository.MenuRepository, log *zap.Logger) CartService {
	return &cartService{
		carts:    carts,
		menuRepo: menuRepo,
		log:      log.Named("cart"),
	}
}

func (s *cartService) Get(ctx context.Context, userID string) cart.Snapshot {
	return s.carts.Get(ctx, userID).Snapshot()
}

// AddItem copies the current state of the menu item into the cart.
// Hidden items cannot be added.
func (s *cartService) AddItem(ctx context.Context, userID, itemID string) (cart.Snapshot, error) {
	item, err := s.menuRepo.FindByID(ctx, itemID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	if !item.Available {
		return cart.Snapshot{}, apperrors.ErrMenuItemUnavailable
	}
	snap := s.carts.Get(ctx, userID).Add(ctx, *item)
	s.log.Debug("item added to cart", zap.String("user_id", userID), zap.String("item_id", itemID))
	return snap, nil
}

func (s *cartService) Remove(ctx context.Context, userID, itemID string) cart.Snapshot {
	return s.carts.Get(ctx, userID).Remove(ctx, itemID)
}

func (s *cartService) Increase(ctx context.Context, userID, itemID string) cart.Snapshot {
	return s.carts.Get(ctx, userID).Increase(ctx, itemID)
}

func (s *cartService) Decrease(ctx context.Context, userID, itemID string) cart.Snapshot {
	return s.carts.Get(ctx, userID).Decrease(ctx, itemID)
}

func (s *cartService) Clear(ctx context.Context, userID string) cart.Snapshot {
	return s.carts.Get(ctx, userID).Clear(ctx)
}
