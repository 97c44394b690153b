package repo

import (
	"gorm.io/gorm"

	"github.com/cantinadev/cantina-backend/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Category{},
	)
}
