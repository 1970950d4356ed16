package repositories

import (
	"context"
	"fmt"

	"tokopos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutletRepository is the read side of outlet administration used by billing.
type OutletRepository interface {
	GetByID(ctx context.Context, id string) (*models.Outlet, error)
	Create(ctx context.Context, outlet *models.Outlet) error
}

type GORMOutletRepository struct {
	db *gorm.DB
}

func NewGORMOutletRepository(db *gorm.DB) *GORMOutletRepository {
	return &GORMOutletRepository{db: db}
}

func (r *GORMOutletRepository) GetByID(ctx context.Context, id string) (*models.Outlet, error) {
	var outlet models.Outlet
	if err := r.db.WithContext(ctx).First(&outlet, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "outlet", id)
	}
	return &outlet, nil
}

func (r *GORMOutletRepository) Create(ctx context.Context, outlet *models.Outlet) error {
	if outlet.ID == "" {
		outlet.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(outlet).Error; err != nil {
		return fmt.Errorf("failed to create outlet: %w", err)
	}
	return nil
}
