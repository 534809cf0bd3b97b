package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus reports whether s is one of the four order statuses.
// The status set is flat: any status may move to any other.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is immutable after creation except for its status. Cancellation
// hard-deletes the row after restoring stock, so there is no DeletedAt.
type Order struct {
	ID         string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderCode  string          `gorm:"type:varchar(255);unique;not null" json:"order_code"`
	UserID     string          `gorm:"size:36;index" json:"user_id"`
	User       *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Fullname   string          `gorm:"size:255;not null" json:"fullname"`
	Phone      string          `gorm:"size:20;not null" json:"phone"`
	Address    string          `gorm:"type:text;not null" json:"address"`
	OrderItems []OrderItem     `json:"order_items"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"total_price"`
	Status     string          `gorm:"size:20;default:'pending';not null" json:"status"`
	OrderDate  time.Time       `gorm:"not null" json:"order_date"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}
