package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"pizzeria/internal/cache"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/menu"
	"pizzeria/internal/metrics"
	"pizzeria/internal/model"
	"pizzeria/internal/repository"
)

const menuCacheKey = "menu:available"

// MenuOptions tunes menu reads.
type MenuOptions struct {
	CacheTTL      time.Duration
	FetchAttempts int
	RetryInterval time.Duration
}

// MenuService handles menu browsing and administration.
type MenuService interface {
	ListAvailableItems(ctx context.Context, filters menu.Filters) (*menu.Listing, error)
	Refresh(ctx context.Context, filters menu.Filters) (*menu.Listing, error)
	State() menu.Snapshot
	Get(ctx context.Context, id string) (*model.MenuItem, error)
	ListAll(ctx context.Context) ([]model.MenuItem, error)
	Submit(ctx context.Context, form *menu.Form) (*model.MenuItem, error)
	Deactivate(ctx context.Context, id string) error
}

type menuService struct {
	repo    repository.MenuRepository
	cache   *cache.Client
	loader  *menu.Loader
	opts    MenuOptions
	log     *zap.Logger
	metrics *metrics.Metrics
}

// NewMenuService creates a new menu service.
func NewMenuService(repo repository.MenuRepository, cache *cache.Client, opts MenuOptions, log *zap.Logger, m *metrics.Metrics) MenuService {
	if opts.FetchAttempts < 1 {
		opts.FetchAttempts = 1
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 200 * time.Millisecond
	}
	return &menuService{
		repo:    repo,
		cache:   cache,
		loader:  menu.NewLoader(),
		opts:    opts,
		log:     log.Named("menu"),
		metrics: m,
	}
}

// ListAvailableItems returns the filtered available items. A read that
// keeps failing yields a retryable RepositoryError, never an empty listing.
func (s *menuService) ListAvailableItems(ctx context.Context, filters menu.Filters) (*menu.Listing, error) {
	listing, _, err := s.loader.Load(ctx, s.fetchAvailable, filters)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// Refresh drops the cached menu and reads it again.
func (s *menuService) Refresh(ctx context.Context, filters menu.Filters) (*menu.Listing, error) {
	s.invalidate(ctx)
	return s.ListAvailableItems(ctx, filters)
}

// State returns the outcome of the most recent menu load.
func (s *menuService) State() menu.Snapshot {
	return s.loader.Snapshot()
}

// Get returns one item, available or not.
func (s *menuService) Get(ctx context.Context, id string) (*model.MenuItem, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAll returns every item for the back-office.
func (s *menuService) ListAll(ctx context.Context) ([]model.MenuItem, error) {
	return s.repo.ListAll(ctx)
}

// Submit writes the form once and invalidates the menu cache on success.
func (s *menuService) Submit(ctx context.Context, form *menu.Form) (*model.MenuItem, error) {
	item, err := form.Submit(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("menu item saved", zap.String("item_id", item.ID), zap.String("name", item.Name))
	return item, nil
}

// Deactivate hides an item from customers.
func (s *menuService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.SetAvailable(ctx, id, false); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.Info("menu item deactivated", zap.String("item_id", id))
	return nil
}

func (s *menuService) fetchAvailable(ctx context.Context) ([]model.MenuItem, error) {
	var cached []model.MenuItem
	if s.cache.GetJSON(ctx, menuCacheKey, &cached) {
		s.metrics.MenuCache(true)
		return cached, nil
	}
	s.metrics.MenuCache(false)

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.opts.RetryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(s.opts.FetchAttempts-1)), ctx)

	var items []model.MenuItem
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		var err error
		items, err = s.repo.ListAvailable(ctx)
		s.metrics.MenuFetch(err == nil)
		if err != nil {
			s.log.Warn("menu fetch failed", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}, policy)
	if err != nil {
		return nil, retryable("list available menu items", err)
	}

	if items == nil {
		items = []model.MenuItem{}
	}
	_ = s.cache.SetJSON(ctx, menuCacheKey, items, s.opts.CacheTTL)
	return items, nil
}

func (s *menuService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, menuCacheKey)
}

func retryable(op string, err error) error {
	var repoErr *apperrors.RepositoryError
	if errors.As(err, &repoErr) {
		return &apperrors.RepositoryError{Op: repoErr.Op, Err: repoErr.Err, Retryable: true}
	}
	return &apperrors.RepositoryError{Op: op, Err: err, Retryable: true}
}
