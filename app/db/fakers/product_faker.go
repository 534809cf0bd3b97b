package fakers

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/omarwaleed/egystore/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func ProductFaker(db *gorm.DB, category *models.Category) *models.Product {
	name := faker.Name()

	productID := uuid.New().String()
	slugText := slug.Make(name + "-" + uuid.NewString()[:6])

	imagePaths := []string{
		"/images/products/ss.jpg",
		"/images/products/ss1.jpg",
		"/images/products/ss2.jpg",
	}

	numImages := rand.Intn(3) + 1
	productImages := make([]models.ProductImage, numImages)

	for i := 0; i < numImages; i++ {
		img := imagePaths[rand.Intn(len(imagePaths))]

		productImages[i] = models.ProductImage{
			ID:        uuid.New().String(),
			ProductID: productID,
			URL:       img,
			Position:  i,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	var subID *string
	if len(category.Subcategories) > 0 {
		id := category.Subcategories[rand.Intn(len(category.Subcategories))].ID
		subID = &id
	}

	product := &models.Product{
		ID:              productID,
		Name:            name,
		Slug:            slugText,
		Description:     faker.Paragraph(),
		Price:           decimal.NewFromFloat(fakePrice()),
		DiscountPercent: decimal.NewFromInt(int64(rand.Intn(5) * 5)),
		Stock:           rand.Intn(20) + 1,
		CategoryID:      category.ID,
		SubcategoryID:   subID,
		ProductImages:   productImages,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	return product
}

func fakePrice() float64 {
	return precision(rand.Float64()*math.Pow10(rand.Intn(4)+1)+1, 2)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}
