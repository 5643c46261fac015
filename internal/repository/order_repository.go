package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
)

// ItemPopularity is the quantity of one menu item across all orders.
type ItemPopularity struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	Quantity   int64  `json:"quantity"`
}

// OrderRepository defines order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListRecent(ctx context.Context, limit int) ([]model.Order, error)
	// UpdateStatusGuard changes the status unless the order is terminal and
	// returns the number of rows changed.
	UpdateStatusGuard(ctx context.Context, id string, status model.OrderStatus) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	ListSince(ctx context.Context, since time.Time) ([]model.Order, error)
	PopularItems(ctx context.Context, limit int) ([]ItemPopularity, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its lines in one transaction.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Create(order).Error; err != nil {
			return err
		}
		for i := range order.Lines {
			order.Lines[i].OrderID = order.ID
			if err := tx.Omit("MenuItem").Create(&order.Lines[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return wrap("create order", err, nil)
}

// FindByID finds an order with its lines and their menu items.
func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := r.withLines(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, wrap("find order", err, apperrors.ErrOrderNotFound)
	}
	return &order, nil
}

// ListByUser lists the orders of one customer, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	var orders []model.Order
	if err := r.withLines(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, wrap("list orders for user", err, nil)
	}
	return orders, nil
}

// ListAll lists every order, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := r.withLines(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, wrap("list orders", err, nil)
	}
	return orders, nil
}

// ListRecent lists the newest orders.
func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	if err := r.withLines(ctx).Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, wrap("list recent orders", err, nil)
	}
	return orders, nil
}

// UpdateStatusGuard implements OrderRepository.
func (r *orderRepository) UpdateStatusGuard(ctx context.Context, id string, status model.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status NOT IN ?", id, []model.OrderStatus{model.OrderStatusDelivered, model.OrderStatusCancelled}).
		Update("status", status)
	return res.RowsAffected, wrap("update order status", res.Error, nil)
}

// CountSince counts orders created at or after since.
func (r *orderRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("created_at >= ?", since).
		Count(&n).Error; err != nil {
		return 0, wrap("count orders", err, nil)
	}
	return n, nil
}

// ListSince returns id, total and creation time of orders created at or
// after since.
func (r *orderRepository) ListSince(ctx context.Context, since time.Time) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Select("id", "total", "created_at").
		Where("created_at >= ?", since).
		Find(&orders).Error; err != nil {
		return nil, wrap("list orders since", err, nil)
	}
	return orders, nil
}

// PopularItems ranks menu items by ordered quantity.
func (r *orderRepository) PopularItems(ctx context.Context, limit int) ([]ItemPopularity, error) {
	var out []ItemPopularity
	err := r.db.WithContext(ctx).Table("order_lines").
		Select("order_lines.menu_item_id AS menu_item_id, menu_items.name AS name, menu_items.image AS image, SUM(order_lines.quantity) AS quantity").
		Joins("JOIN menu_items ON menu_items.id = order_lines.menu_item_id").
		Group("order_lines.menu_item_id, menu_items.name, menu_items.image").
		Order("quantity DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, wrap("popular items", err, nil)
	}
	return out, nil
}

// WithTransaction executes a function within a database transaction.
func (r *orderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &orderRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func (r *orderRepository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Lines").Preload("Lines.MenuItem")
}

// OrderStatusLogRepository defines order status log persistence operations.
type OrderStatusLogRepository interface {
	Create(ctx context.Context, log *model.OrderStatusLog) error
	CreateBatch(ctx context.Context, logs []model.OrderStatusLog) error
	ListByOrder(ctx context.Context, orderID string) ([]model.OrderStatusLog, error)
}

type orderStatusLogRepository struct {
	db *gorm.DB
}

// NewOrderStatusLogRepository creates a new order status log repository.
func NewOrderStatusLogRepository(db *gorm.DB) OrderStatusLogRepository {
	return &orderStatusLogRepository{db: db}
}

// Create creates a new status log entry.
func (r *orderStatusLogRepository) Create(ctx context.Context, log *model.OrderStatusLog) error {
	return wrap("create status log", r.db.WithContext(ctx).Create(log).Error, nil)
}

// CreateBatch creates multiple status log entries.
func (r *orderStatusLogRepository) CreateBatch(ctx context.Context, logs []model.OrderStatusLog) error {
	if len(logs) == 0 {
		return nil
	}
	return wrap("create status logs", r.db.WithContext(ctx).CreateInBatches(logs, 100).Error, nil)
}

// ListByOrder lists the status history of an order, oldest first.
func (r *orderStatusLogRepository) ListByOrder(ctx context.Context, orderID string) ([]model.OrderStatusLog, error) {
	var logs []model.OrderStatusLog
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, wrap("list status logs", err, nil)
	}
	return logs, nil
}
