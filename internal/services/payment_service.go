package services

import (
	"context"
	"time"

	"tokopos/internal/apperror"
	"tokopos/internal/events"
	"tokopos/internal/metrics"
	"tokopos/internal/models"
	"tokopos/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const useCasePaymentCreate = "payment_create"

// PaymentPolicy decides which amounts complete an order.
type PaymentPolicy struct {
	// RequireFullAmount rejects amounts below the order total. When false any
	// non-negative amount completes the order and the bill reports the change.
	RequireFullAmount bool
}

// CreatePaymentRequest is the input of CreatePayment.
type CreatePaymentRequest struct {
	OrderID string               `json:"order_id" validate:"required"`
	Amount  decimal.Decimal      `json:"amount"`
	Method  models.PaymentMethod `json:"method" validate:"required,oneof=cash card qris transfer e_wallet"`
}

// PaymentService records payments and completes their orders.
type PaymentService struct {
	uow       repositories.UnitOfWork
	orders    repositories.OrderRepository
	payments  repositories.PaymentRepository
	policy    PaymentPolicy
	publisher events.Publisher
	observer
}

func NewPaymentService(
	uow repositories.UnitOfWork,
	orders repositories.OrderRepository,
	payments repositories.PaymentRepository,
	policy PaymentPolicy,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) *PaymentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &PaymentService{
		uow:       uow,
		orders:    orders,
		payments:  payments,
		policy:    policy,
		publisher: publisher,
		observer:  newObserver(log, m),
	}
}

// CreatePayment inserts the payment and moves the order from on_progress to
// completed in one unit of work.
func (s *PaymentService) CreatePayment(ctx context.Context, principal models.Principal, req CreatePaymentRequest) (ack *Acknowledgement, err error) {
	ctx, done := s.track(ctx, useCasePaymentCreate,
		attribute.String("order.id", req.OrderID),
		attribute.String("payment.method", string(req.Method)),
		attribute.String("payment.amount", req.Amount.String()),
		attribute.String("cashier.id", principal.UserID),
	)
	defer func() { done(err) }()

	if err := validatePayment(req); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:      uuid.New().String(),
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Method:  req.Method,
		Status:  models.PaymentStatusCompleted,
		PaidAt:  time.Now().UTC(),
	}

	var total decimal.Decimal
	err = s.uow.Do(ctx, func(tx repositories.Tx) error {
		order, err := tx.Orders().GetForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if order.Status != models.PayableStatus {
			return apperror.InvalidTransition(order.ID, order.Status, models.StatusCompleted)
		}
		total = order.TotalPrice
		if s.policy.RequireFullAmount && req.Amount.LessThan(order.TotalPrice) {
			return apperror.ValidationFields("Validation failed", map[string]string{
				"amount": "amount " + req.Amount.StringFixed(2) + " is below the order total " + order.TotalPrice.StringFixed(2),
			})
		}

		if err := tx.Orders().TransitionStatus(ctx, order.ID, []models.OrderStatus{models.PayableStatus}, models.StatusCompleted); err != nil {
			return err
		}
		return tx.Payments().Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, s.publisher, events.PaymentCompleted, req.OrderID, map[string]any{
		"payment_id":  payment.ID,
		"amount":      payment.Amount,
		"method":      payment.Method,
		"order_total": total,
		"paid_at":     payment.PaidAt,
	})
	return &Acknowledgement{ID: payment.ID, Message: "Payment processed successfully"}, nil
}

// GetPaymentsByOrder lists the payments recorded against an order.
func (s *PaymentService) GetPaymentsByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.payments.GetByOrderID(ctx, orderID)
}

func validatePayment(req CreatePaymentRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if req.Amount.IsNegative() {
		return apperror.ValidationFields("Validation failed", map[string]string{
			"amount": "amount must not be negative",
		})
	}
	if !req.Amount.Equal(req.Amount.Round(2)) {
		return apperror.ValidationFields("Validation failed", map[string]string{
			"amount": "amount must have at most two decimal places",
		})
	}
	return nil
}
