package fakers

import (
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/omarwaleed/egystore/app/models"
	"gorm.io/gorm"
)

func CategoryFaker(db *gorm.DB) *models.Category {
	name := faker.Word() + " " + uuid.NewString()[:6]

	return &models.Category{
		ID:   uuid.New().String(),
		Name: name,
		Slug: slug.Make(name),
		Subcategories: []models.Subcategory{
			{ID: uuid.New().String(), Name: faker.Word() + " essentials"},
			{ID: uuid.New().String(), Name: faker.Word() + " premium"},
		},
	}
}
