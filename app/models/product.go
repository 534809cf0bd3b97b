package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/omarwaleed/egystore/app/utils/calc"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID              string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Slug            string          `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description     string          `gorm:"type:text" json:"description"`
	Price           decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"discount_percent"`
	Stock           int             `gorm:"not null" json:"stock"`
	CategoryID      string          `gorm:"size:36;index" json:"category_id"`
	Category        *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubcategoryID   *string         `gorm:"size:36;index" json:"subcategory_id,omitempty"`
	Subcategory     *Subcategory    `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	ProductImages   []ProductImage  `json:"images"`
	RatingAvg       decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"rating_avg"`
	RatingCount     int             `gorm:"default:0" json:"rating_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
}

type ProductImage struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID string    `gorm:"size:36;index" json:"product_id"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (pi *ProductImage) BeforeCreate(tx *gorm.DB) (err error) {
	if pi.ID == "" {
		pi.ID = uuid.New().String()
	}
	return
}

// FinalPrice is the unit price after applying the discount percentage.
// This is the price recorded into order line-item snapshots.
func (p *Product) FinalPrice() decimal.Decimal {
	return calc.FinalPrice(p.Price, p.DiscountPercent)
}
