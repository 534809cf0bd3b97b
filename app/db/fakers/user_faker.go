package fakers

import (
	"log"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/omarwaleed/egystore/app/helpers"
	"github.com/omarwaleed/egystore/app/models"
	"gorm.io/gorm"
)

func UserFaker(db *gorm.DB) *models.User {
	hashed, err := helpers.HashPassword("password123")
	if err != nil {
		log.Fatal("Failed to hash faker password:", err)
	}

	return &models.User{
		ID:       uuid.New().String(),
		Name:     faker.Name(),
		Email:    faker.Email(),
		Password: hashed,
		Role:     models.RoleCustomer,
	}
}
