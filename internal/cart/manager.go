package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/metrics"
	"pizzeria/internal/model"
)

var errCorrupt = errors.New("cart data is malformed")

// Manager owns the in-memory cart of each customer. A cart is rehydrated
// from the store the first time it is requested.
type Manager struct {
	store   Store
	log     *zap.Logger
	metrics *metrics.Metrics

	mu    sync.Mutex
	carts map[string]*Cart
}

// NewManager creates a Manager. m may be nil.
func NewManager(store Store, log *zap.Logger, m *metrics.Metrics) *Manager {
	return &Manager{
		store:   store,
		log:     log.Named("cart"),
		metrics: m,
		carts:   make(map[string]*Cart),
	}
}

// Get returns the cart of userID. The stored copy is read on first use and
// again on later calls for as long as the store could not be reached. The
// read happens under the cart's own lock, never the manager's.
func (m *Manager) Get(ctx context.Context, userID string) *Cart {
	m.mu.Lock()
	c, ok := m.carts[userID]
	if !ok {
		c = newCart(m.loader(userID), m.persister(userID))
		m.carts[userID] = c
	}
	m.mu.Unlock()

	c.sync(ctx)
	return c
}

// Forget drops the in-memory cart of userID. The persisted copy stays and
// is loaded again on the next Get.
func (m *Manager) Forget(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
}

func (m *Manager) loader(userID string) loadFunc {
	return func(ctx context.Context) ([]model.CartLine, error) {
		data, err := m.store.Load(ctx, userID)
		if err != nil {
			m.log.Warn("cart load failed, changes kept in memory",
				zap.String("user_id", userID),
				zap.Error(&apperrors.StorageError{Key: userID, Err: err}))
			return nil, err
		}
		if data == nil {
			return nil, nil
		}

		lines, err := decode(data)
		if err != nil {
			m.log.Warn("discarding corrupt cart", zap.String("user_id", userID), zap.Error(err))
			if err := m.store.Delete(ctx, userID); err != nil {
				m.log.Warn("delete corrupt cart", zap.String("user_id", userID), zap.Error(err))
			}
			return nil, nil
		}
		return lines, nil
	}
}

func (m *Manager) persister(userID string) persistFunc {
	return func(ctx context.Context, lines []model.CartLine) {
		data, err := json.Marshal(lines)
		if err == nil {
			err = m.store.Save(ctx, userID, data)
		}
		if err != nil {
			m.metrics.CartPersistFailed()
			m.log.Error("cart persist failed",
				zap.String("user_id", userID),
				zap.Error(&apperrors.StorageError{Key: userID, Err: err}))
		}
	}
}

func decode(data []byte) ([]model.CartLine, error) {
	var lines []model.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if line.Item.ID == "" || line.Quantity < 1 {
			return nil, errCorrupt
		}
		if _, dup := seen[line.Item.ID]; dup {
			return nil, errCorrupt
		}
		seen[line.Item.ID] = struct{}{}
	}
	return lines, nil
}
