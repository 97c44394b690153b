package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cantinadev/cantina-backend/internal/models"
)

var (
	// ErrDuplicateCode means the freshly generated pickup code lost the
	// race against a concurrent insert. Callers regenerate and retry.
	ErrDuplicateCode = errors.New("pickup code already taken")

	// ErrProductReferenced means order lines still point at the product.
	ErrProductReferenced = errors.New("product referenced by existing orders")
)

func (r *GormRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("codigo_retirada = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertOrderAtomic writes the order header and every line item in a
// single transaction. A unique violation on the header's pickup code
// comes back as ErrDuplicateCode; any other failure rolls everything
// back untranslated.
func (r *GormRepo) InsertOrderAtomic(ctx context.Context, order *models.Order) error {
	items := order.Items
	order.Items = nil

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCode
			}
			return fmt.Errorf("inserting order header: %w", err)
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("inserting order item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.Items = items
	return nil
}

func (r *GormRepo) GetOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("codigo_retirada = ?", code).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("cliente_identificador = ?", customerID).
		Order("data_hora DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Preload("Items").Order("data_hora DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) UpdateStatus(ctx context.Context, code, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("codigo_retirada = ?", code).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DailyEarnings sums non-canceled orders for one calendar day.
func (r *GormRepo) DailyEarnings(ctx context.Context, day string) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.NullDecimal
		Count int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("SUM(valor_total) AS total, COUNT(id) AS count").
		Where("DATE(data_hora) = DATE(?) AND status <> ?", day, models.StatusCancelado).
		Scan(&row).Error; err != nil {
		return decimal.Zero, 0, err
	}
	if !row.Total.Valid {
		return decimal.Zero, 0, nil
	}
	return row.Total.Decimal, row.Count, nil
}
