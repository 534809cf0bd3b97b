package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is a frozen snapshot of one product at order-creation time.
// Later edits to the live product must not alter it.
type OrderItem struct {
	ID          string          `gorm:"primaryKey;type:varchar(36);not null;uniqueIndex" json:"id"`
	OrderID     string          `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ProductID   string          `gorm:"type:varchar(36);not null;index" json:"product_id"`
	Product     *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Qty         int             `gorm:"not null" json:"qty"`
	Price       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"subtotal"`
	ImagesJSON  string          `gorm:"type:text" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}

// SetImages snapshots the product's image URLs into the item.
func (oi *OrderItem) SetImages(images []ProductImage) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	raw, err := json.Marshal(urls)
	if err != nil {
		return
	}
	oi.ImagesJSON = string(raw)
}

// Images returns the snapshotted image URLs.
func (oi *OrderItem) Images() []string {
	if oi.ImagesJSON == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(oi.ImagesJSON), &urls); err != nil {
		return nil
	}
	return urls
}

func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type alias OrderItem
	return json.Marshal(struct {
		alias
		Images []string `json:"images"`
	}{alias(oi), oi.Images()})
}
