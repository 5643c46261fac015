package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pizzeria/internal/cart"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/metrics"
	"pizzeria/internal/model"
	"pizzeria/internal/realtime"
	"pizzeria/internal/repository"
)

const (
	statusLogBuffer = 100
	statusLogBatch  = 10
	statusLogFlush  = time.Second
)

// StatusChange is the payload pushed to a customer when an order moves.
type StatusChange struct {
	OrderID      string                   `json:"order_id"`
	Status       model.OrderStatus        `json:"status"`
	Presentation model.StatusPresentation `json:"presentation"`
	Progress     float64                  `json:"progress"`
}

// OrderService handles checkout and the order lifecycle.
type OrderService interface {
	Checkout(ctx context.Context, userID string) (*model.Order, error)
	ListForUser(ctx context.Context, userID string) ([]model.Order, error)
	Get(ctx context.Context, id string, viewer *model.Profile) (*model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id, status string, admin *model.Profile) (*model.Order, error)
	History(ctx context.Context, id string, viewer *model.Profile) ([]model.OrderStatusLog, error)
	Close()
}

type orderService struct {
	orderRepo   repository.OrderRepository
	statusRepo  repository.OrderStatusLogRepository
	menuRepo    repository.MenuRepository
	carts       *cart.Manager
	publisher   realtime.Publisher
	deliveryFee decimal.Decimal
	log         *zap.Logger
	metrics     *metrics.Metrics

	// Channel for async status logging
	logChannel chan model.OrderStatusLog
	closeOnce  sync.Once
	workerDone chan struct{}
}

// NewOrderService creates a new order service and starts its status log worker.
// Close stops the worker after flushing pending entries.
func NewOrderService(
	orderRepo repository.OrderRepository,
	statusRepo repository.OrderStatusLogRepository,
	menuRepo repository.MenuRepository,
	carts *cart.Manager,
	publisher realtime.Publisher,
	deliveryFee decimal.Decimal,
	log *zap.Logger,
	m *metrics.Metrics,
) OrderService {
	s := &orderService{
		orderRepo:   orderRepo,
		statusRepo:  statusRepo,
		menuRepo:    menuRepo,
		carts:       carts,
		publisher:   publisher,
		deliveryFee: deliveryFee,
		log:         log.Named("order"),
		metrics:     m,
		logChannel:  make(chan model.OrderStatusLog, statusLogBuffer),
		workerDone:  make(chan struct{}),
	}

	go s.logWorker(context.Background())

	return s
}

// logWorker writes status logs in batches.
func (s *orderService) logWorker(ctx context.Context) {
	defer close(s.workerDone)

	batch := make([]model.OrderStatusLog, 0, statusLogBatch)
	ticker := time.NewTicker(statusLogFlush)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.statusRepo.CreateBatch(ctx, batch); err != nil {
			s.log.Error("write status logs", zap.Int("count", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-s.logChannel:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= statusLogBatch {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Close flushes pending status logs and stops the worker.
func (s *orderService) Close() {
	s.closeOnce.Do(func() {
		close(s.logChannel)
		<-s.workerDone
	})
}

// logStatus queues a status log without blocking the request.
func (s *orderService) logStatus(ctx context.Context, orderID string, status model.OrderStatus, changedBy string) {
	entry := model.OrderStatusLog{
		OrderID:   orderID,
		Status:    status,
		ChangedBy: changedBy,
		CreatedAt: time.Now(),
	}

	select {
	case s.logChannel <- entry:
	default:
		// Channel full, log synchronously as fallback
		if err := s.statusRepo.Create(ctx, &entry); err != nil {
			s.log.Error("write status log", zap.String("order_id", orderID), zap.Error(err))
		}
	}
}

// Checkout turns the customer's cart into a pending order and empties the cart.
// Line prices are the ones captured when items entered the cart.
func (s *orderService) Checkout(ctx context.Context, userID string) (*model.Order, error) {
	var (
		order *model.Order
		snap  cart.Snapshot
	)
	err := s.carts.Get(ctx, userID).Checkout(ctx, func(current cart.Snapshot) error {
		if len(current.Lines) == 0 {
			return apperrors.ErrEmptyCart
		}

		placed := &model.Order{
			UserID:      userID,
			Status:      model.OrderStatusPending,
			DeliveryFee: s.deliveryFee,
			Total:       decimal.Zero,
		}
		for _, line := range current.Lines {
			item, err := s.menuRepo.FindByID(ctx, line.Item.ID)
			if err != nil {
				return err
			}
			if !item.Available {
				return apperrors.ErrMenuItemUnavailable
			}
			subtotal := line.Subtotal()
			placed.Lines = append(placed.Lines, model.OrderLine{
				MenuItemID: line.Item.ID,
				Quantity:   line.Quantity,
				Subtotal:   subtotal,
			})
			placed.Total = placed.Total.Add(subtotal)
		}

		if err := s.orderRepo.Create(ctx, placed); err != nil {
			return err
		}
		order, snap = placed, current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCreated()
	s.logStatus(ctx, order.ID, model.OrderStatusPending, userID)
	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("total", order.Total.StringFixed(2)))

	for i := range order.Lines {
		item := snap.Lines[i].Item
		order.Lines[i].MenuItem = &item
	}
	return order, nil
}

func (s *orderService) ListForUser(ctx context.Context, userID string) ([]model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// Get returns an order the viewer owns. Administrators see every order.
// Orders of other customers are reported as missing.
func (s *orderService) Get(ctx context.Context, id string, viewer *model.Profile) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin() && (viewer == nil || order.UserID != viewer.ID) {
		return nil, apperrors.ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateStatus moves an order to any status of the vocabulary unless it is
// already delivered or cancelled. The owner is notified over the hub.
func (s *orderService) UpdateStatus(ctx context.Context, id, status string, admin *model.Profile) (*model.Order, error) {
	next := model.OrderStatus(status)
	if !next.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}
	if !admin.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	var order *model.Order
	err := s.orderRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.OrderRepository) error {
		affected, err := repo.UpdateStatusGuard(ctx, id, next)
		if err != nil {
			return err
		}
		// Missing or terminal; the lookup tells them apart.
		found, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperrors.ErrOrderImmutable
		}
		order = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusChanged(string(next))
	s.logStatus(ctx, id, next, admin.ID)

	presentation := model.DescribeStatus(string(next))
	s.publisher.Publish(order.UserID, realtime.Event{
		Type: realtime.EventStatusChanged,
		Payload: StatusChange{
			OrderID:      id,
			Status:       next,
			Presentation: presentation,
			Progress:     presentation.Progress(),
		},
	})
	s.log.Info("order status changed",
		zap.String("order_id", id),
		zap.String("status", string(next)),
		zap.String("changed_by", admin.ID))

	return order, nil
}

// History lists the status changes of an order the viewer may see.
func (s *orderService) History(ctx context.Context, id string, viewer *model.Profile) ([]model.OrderStatusLog, error) {
	if _, err := s.Get(ctx, id, viewer); err != nil {
		return nil, err
	}
	return s.statusRepo.ListByOrder(ctx, id)
}
