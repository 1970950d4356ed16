package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokopos/internal/apperror"
	"tokopos/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func byLine(db *gorm.DB) *gorm.DB { return db.Order("line") }

// GetAll retrieves all orders, newest first.
func (r *GORMOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", byLine).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items", byLine).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	return &order, nil
}

func (r *GORMOrderRepository) GetForUpdate(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	if err := r.db.WithContext(ctx).Scopes(byLine).Where("order_id = ?", id).Find(&order.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to load items of order %s: %w", id, err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) GetWithDetails(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", byLine).
		Preload("Items.Product").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at, id") }).
		Preload("Cashier").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err, "order", id)
	}
	return &order, nil
}

func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *GORMOrderRepository) TransitionStatus(ctx context.Context, id string, from []models.OrderStatus, to models.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.New(apperror.KindInvalidStateTransition,
			"order %s cannot move to %s from its current status", id, to)
	}
	return nil
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource, id)
	}
	return fmt.Errorf("failed to get %s by ID %s: %w", resource, id, err)
}
