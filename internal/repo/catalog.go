package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/cantinadev/cantina-backend/internal/models"
	"github.com/cantinadev/cantina-backend/internal/transport"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	product := models.Product{}
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListAvailableProducts is the public catalog view: unavailable rows
// are never returned. Category matches case-insensitively; search is a
// substring match on name and description.
func (r *GormRepo) ListAvailableProducts(ctx context.Context, category, search string) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("disponivel = ?", true)

	if category != "" {
		q = q.Where("lower(categoria) = lower(?)", category)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("lower(nome) LIKE lower(?) OR lower(descricao) LIKE lower(?)", like, like)
	}

	var items []models.Product
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

func (r *GormRepo) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.Category != nil {
		prod.Category = *req.Category
	}
	if req.ImageURL != nil {
		prod.ImageURL = req.ImageURL
	}
	if req.Available != nil {
		prod.Available = *req.Available
	}

	if err := r.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, err
	}

	return &prod, nil
}

// ErrProductReferenced guards referential integrity: a product that
// appears on any order line can only be marked unavailable, not deleted.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}

	var refs int64
	if err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Where("produto_id = ?", id).Count(&refs).Error; err != nil {
		return nil, err
	}
	if refs > 0 {
		return &prod, ErrProductReferenced
	}

	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &prod, nil
}

func (r *GormRepo) ProductNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}

	var rows []struct {
		ID   uint
		Nome string
	}
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Select("id", "nome").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Nome
	}
	return names, nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	if err := r.DB.WithContext(ctx).Order("nome ASC").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	if err := r.DB.WithContext(ctx).Create(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}
