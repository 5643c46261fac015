package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatusLog records a status change made by an administrator.
// Every change is logged, including the initial pending status at checkout.
type OrderStatusLog struct {
	ID        string      `json:"id" gorm:"type:char(36);primaryKey"`
	OrderID   string      `json:"order_id" gorm:"type:char(36);not null;index"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(32);not null"`
	ChangedBy string      `json:"changed_by" gorm:"type:char(36)"`
	CreatedAt time.Time   `json:"created_at"`
}

// BeforeCreate sets the id before inserting the record.
func (l *OrderStatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
