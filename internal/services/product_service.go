package services

import (
	"context"

	"tokopos/internal/apperror"
	"tokopos/internal/models"
	"tokopos/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product with its opening stock.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates catalog fields. Stock is only changed by orders.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.Update(ctx, product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateProduct(product *models.Product) error {
	if err := validateStruct(product); err != nil {
		return err
	}
	if !product.Price.IsPositive() {
		return apperror.ValidationFields("Validation failed", map[string]string{
			"price": "price must be greater than zero",
		})
	}
	return nil
}
