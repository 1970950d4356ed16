package repositories

import (
	"context"

	"tokopos/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	// GetByID loads the order with its items.
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// GetForUpdate loads the order with its items and locks the order row
	// until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.Order, error)
	// GetWithDetails loads items with their products, payments and the cashier.
	GetWithDetails(ctx context.Context, id string) (*models.Order, error)
	// Create inserts the order together with its items.
	Create(ctx context.Context, order *models.Order) error
	// TransitionStatus sets the status to `to` only if the current status is one
	// of `from`. It fails with an invalid_state_transition error otherwise.
	TransitionStatus(ctx context.Context, id string, from []models.OrderStatus, to models.OrderStatus) error
}
