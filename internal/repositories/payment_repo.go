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

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByOrderID(ctx context.Context, orderID string) ([]models.Payment, error)
}

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

func (r *GORMPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Create(payment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.New(apperror.KindInvalidStateTransition, "order %s already has a payment", payment.OrderID)
	}
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *GORMPaymentRepository) GetByOrderID(ctx context.Context, orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("paid_at, id").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to get payments of order %s: %w", orderID, err)
	}
	return payments, nil
}
