package seeders

import (
	"github.com/omarwaleed/egystore/app/db/fakers"
	"gorm.io/gorm"
)

const productsPerCategory = 8

func DBSeed(db *gorm.DB) error {
	user := fakers.UserFaker(db)
	if err := db.FirstOrCreate(user, "email = ?", user.Email).Error; err != nil {
		return err
	}

	for i := 0; i < 3; i++ {
		category := fakers.CategoryFaker(db)
		if err := db.Create(category).Error; err != nil {
			return err
		}

		for j := 0; j < productsPerCategory; j++ {
			product := fakers.ProductFaker(db, category)
			if err := db.Create(product).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
