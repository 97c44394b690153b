package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cantinadev/cantina-backend/internal/models"
	"github.com/cantinadev/cantina-backend/internal/repo"
	"github.com/cantinadev/cantina-backend/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

// GetPublicProduct hides unavailable products from the public catalog;
// the admin listing is the only place that sees them.
func (s *CatalogService) GetPublicProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: produto não encontrado ou indisponível", ErrNotFound)
		}
		return nil, err
	}
	if !prod.Available {
		return nil, fmt.Errorf("%w: produto não encontrado ou indisponível", ErrNotFound)
	}
	return prod, nil
}

func (s *CatalogService) ListAvailableProducts(ctx context.Context, category, search string) ([]models.Product, error) {
	return s.Repo.ListAvailableProducts(ctx, strings.TrimSpace(category), strings.TrimSpace(search))
}

func (s *CatalogService) ListAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListAllProducts(ctx)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price == nil {
		return nil, fmt.Errorf("%w: 'nome' e 'preco' são obrigatórios", ErrMalformedInput)
	}
	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: o preço deve ser um valor positivo", ErrValidation)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "Geral"
	}

	prod := models.Product{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		Category:    category,
		Available:   true,
	}
	if req.ImageURL != nil {
		trimmed := strings.TrimSpace(*req.ImageURL)
		if trimmed != "" {
			prod.ImageURL = &trimmed
		}
	}
	if req.Available != nil {
		prod.Available = *req.Available
	}

	return s.Repo.CreateProduct(ctx, &prod)
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	if req.Name == nil && req.Description == nil && req.Price == nil &&
		req.Category == nil && req.ImageURL == nil && req.Available == nil {
		return nil, fmt.Errorf("%w: nenhum campo válido fornecido para atualização", ErrMalformedInput)
	}
	if req.Price != nil && !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: o preço deve ser um valor positivo", ErrValidation)
	}

	trimPtr(&req.Name)
	trimPtr(&req.Description)
	trimPtr(&req.Category)
	trimPtr(&req.ImageURL)

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: produto não encontrado", ErrNotFound)
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) (string, error) {
	prod, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return "", fmt.Errorf("%w: produto não encontrado", ErrNotFound)
		case errors.Is(err, repo.ErrProductReferenced):
			return "", fmt.Errorf("%w: produto '%s' não pode ser deletado, pois está associado a pedidos existentes. Considere torná-lo indisponível", ErrConflict, prod.Name)
		default:
			return "", err
		}
	}
	return prod.Name, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: 'nome' é obrigatório", ErrMalformedInput)
	}

	cat, err := s.Repo.CreateCategory(ctx, &models.Category{Name: name})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: categoria '%s' já existe", ErrConflict, name)
		}
		return nil, err
	}
	return cat, nil
}

func trimPtr(p **string) {
	if *p == nil {
		return
	}
	trimmed := strings.TrimSpace(**p)
	*p = &trimmed
}
