package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle position of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out-for-delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Valid reports whether s belongs to the status vocabulary.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether an order in this status can no longer change.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Order is a customer order. Total is the sum of line subtotals; the flat
// delivery fee is kept apart so that invariant holds.
type Order struct {
	ID          string          `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      string          `json:"user_id" gorm:"type:char(36);not null;index"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(32);not null;default:'pending';index"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	DeliveryFee decimal.Decimal `json:"delivery_fee" gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Lines []OrderLine `json:"lines" gorm:"foreignKey:OrderID"`
}

// BeforeCreate sets the id before inserting the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// AmountDue is what the customer pays: lines plus delivery.
func (o *Order) AmountDue() decimal.Decimal {
	return o.Total.Add(o.DeliveryFee)
}

// OrderLine is one menu item within an order.
type OrderLine struct {
	ID         string          `json:"id" gorm:"type:char(36);primaryKey"`
	OrderID    string          `json:"order_id" gorm:"type:char(36);not null;index"`
	MenuItemID string          `json:"menu_item_id" gorm:"type:char(36);not null;index"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	Subtotal   decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`

	MenuItem *MenuItem `json:"menu_item,omitempty" gorm:"foreignKey:MenuItemID"`
}

// BeforeCreate sets the id before inserting the record.
func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// StatusPresentation is how an order status is shown to people.
type StatusPresentation struct {
	Label        string `json:"label"`
	ColorClass   string `json:"color_class"`
	OrdinalIndex int    `json:"ordinal_index"`
}

// lastOrdinal is the index of the final step of the delivery pipeline.
const lastOrdinal = 3

var unknownStatus = StatusPresentation{Label: "Unknown", ColorClass: "bg-gray-500", OrdinalIndex: -1}

var statusPresentations = map[OrderStatus]StatusPresentation{
	OrderStatusPending:        {Label: "Pending", ColorClass: "bg-yellow-500", OrdinalIndex: 0},
	OrderStatusPreparing:      {Label: "Preparing", ColorClass: "bg-blue-500", OrdinalIndex: 1},
	OrderStatusOutForDelivery: {Label: "Out for delivery", ColorClass: "bg-purple-500", OrdinalIndex: 2},
	OrderStatusDelivered:      {Label: "Delivered", ColorClass: "bg-green-500", OrdinalIndex: lastOrdinal},
	OrderStatusCancelled:      {Label: "Cancelled", ColorClass: "bg-red-500", OrdinalIndex: -1},
}

// DescribeStatus maps any status string to its presentation. Unrecognized
// input yields the "Unknown" presentation.
func DescribeStatus(status string) StatusPresentation {
	if p, ok := statusPresentations[OrderStatus(status)]; ok {
		return p
	}
	return unknownStatus
}

// Progress returns the progress bar fill in percent, or 0 when the status
// has no position in the pipeline.
func (p StatusPresentation) Progress() float64 {
	if p.OrdinalIndex < 0 {
		return 0
	}
	return float64(p.OrdinalIndex) / lastOrdinal * 100
}
