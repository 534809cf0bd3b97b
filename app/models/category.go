package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID            string         `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name          string         `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug          string         `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Subcategories []Subcategory  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"subcategories"`
	Products      []Product      `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Subcategory has no lifecycle outside its parent category.
type Subcategory struct {
	ID         string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CategoryID string    `gorm:"size:36;not null;index" json:"category_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (s *Subcategory) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}
