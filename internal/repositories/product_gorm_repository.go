package repositories

import (
	"context"
	"errors"
	"fmt"

	"tokopos/internal/apperror"
	"tokopos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// catalogColumns are the product columns Update may write. Quantity belongs to the ledger.
var catalogColumns = []string{"name", "description", "price", "category_id", "outlet_id", "updated_at"}

// GORMProductRepository stores the product catalog.
type GORMProductRepository struct {
	db *gorm.DB
}

func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// GetAll lists the catalog sorted by name.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "product", id)
	}
	return &product, nil
}

// Create inserts the product with its opening stock.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product %s: %w", product.Name, err)
	}
	return nil
}

// Update writes the catalog columns and reloads product, so the caller sees
// the stored quantity rather than whatever it sent.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{ID: product.ID}).
		Select(catalogColumns).
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product", product.ID)
	}
	return r.db.WithContext(ctx).First(product, "id = ?", product.ID).Error
}

// Delete removes a product. Products still referenced by order items are kept
// and reported as a conflict.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	switch {
	case errors.Is(res.Error, gorm.ErrForeignKeyViolated):
		return apperror.Conflict("product %s is referenced by existing orders", id)
	case res.Error != nil:
		return fmt.Errorf("failed to delete product %s: %w", id, res.Error)
	case res.RowsAffected == 0:
		return apperror.NotFound("product", id)
	}
	return nil
}
