package services

import (
	"context"

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

const (
	useCaseOrderCreate = "order_create"
	useCaseOrderCancel = "order_cancel"
)

// OrderItemRequest is one requested line. Prices are never taken from the client.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0,max=100000"`
}

// CreateOrderRequest is the input of CreateOrder. CustomerID defaults to the caller.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Acknowledgement is returned by operations that only confirm a state change.
type Acknowledgement struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// OrderService handles business logic related to orders.
type OrderService struct {
	uow       repositories.UnitOfWork
	orders    repositories.OrderRepository
	publisher events.Publisher
	observer
}

// NewOrderService creates a new OrderService.
func NewOrderService(uow repositories.UnitOfWork, orders repositories.OrderRepository, publisher events.Publisher, m *metrics.Metrics, log *zap.Logger) *OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &OrderService{
		uow:       uow,
		orders:    orders,
		publisher: publisher,
		observer:  newObserver(log, m),
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.GetAll(ctx)
}

// GetOrderByID retrieves a single order with its items.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// CreateOrder reserves stock for every item and stores the order in one unit of
// work. Either the order exists with all its items and every product was
// decremented, or nothing changed.
func (s *OrderService) CreateOrder(ctx context.Context, principal models.Principal, req CreateOrderRequest) (order *models.Order, err error) {
	ctx, done := s.track(ctx, useCaseOrderCreate,
		attribute.String("cashier.id", principal.UserID),
		attribute.Int("order.lines", len(req.Items)),
	)
	defer func() { done(err) }()

	if principal.UserID == "" {
		return nil, apperror.Unauthorized("an authenticated user is required", nil)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	customerID := req.CustomerID
	if customerID == "" {
		customerID = principal.UserID
	}

	stock := make([]repositories.StockRequest, len(req.Items))
	for i, item := range req.Items {
		stock[i] = repositories.StockRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order = &models.Order{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		CashierID:  principal.UserID,
		Status:     models.StatusOnProgress,
	}

	err = s.uow.Do(ctx, func(tx repositories.Tx) error {
		products, err := tx.Inventory().Reserve(ctx, stock)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]models.OrderItem, len(req.Items))
		for i, item := range req.Items {
			price := products[item.ProductID].Price
			items[i] = models.OrderItem{
				ID:           uuid.New().String(),
				OrderID:      order.ID,
				Line:         i + 1,
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				PriceAtOrder: price,
			}
			total = total.Add(items[i].LineTotal())
		}
		order.Items = items
		order.TotalPrice = total

		return tx.Orders().Create(ctx, order)
	})
	if err != nil {
		if apperror.Is(err, apperror.KindInsufficientStock) {
			s.metrics.StockRejected()
		}
		return nil, err
	}

	s.publish(ctx, s.publisher, events.OrderCreated, order.ID, orderCreatedPayload(order))
	return order, nil
}

// CancelOrder returns the order's stock to the ledger and marks it canceled.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (ack *Acknowledgement, err error) {
	ctx, done := s.track(ctx, useCaseOrderCancel, attribute.String("order.id", id))
	defer func() { done(err) }()

	var from models.OrderStatus
	err = s.uow.Do(ctx, func(tx repositories.Tx) error {
		order, err := tx.Orders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = order.Status
		if !order.Status.Cancellable() {
			return apperror.InvalidTransition(order.ID, order.Status, models.StatusCanceled)
		}

		release := make([]repositories.StockRequest, len(order.Items))
		for i, item := range order.Items {
			release[i] = repositories.StockRequest{ProductID: item.ProductID, Quantity: item.Quantity}
		}
		if err := tx.Inventory().Release(ctx, release); err != nil {
			return err
		}
		return tx.Orders().TransitionStatus(ctx, order.ID, models.CancellableStatuses(), models.StatusCanceled)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, s.publisher, events.OrderCanceled, id, map[string]any{
		"previous_status": from,
		"status":          models.StatusCanceled,
	})
	return &Acknowledgement{ID: id, Message: "Order canceled successfully"}, nil
}

type orderLinePayload struct {
	ProductID    string          `json:"product_id"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
}

func orderCreatedPayload(order *models.Order) map[string]any {
	lines := make([]orderLinePayload, len(order.Items))
	for i, item := range order.Items {
		lines[i] = orderLinePayload{ProductID: item.ProductID, Quantity: item.Quantity, PriceAtOrder: item.PriceAtOrder}
	}
	return map[string]any{
		"customer_id": order.CustomerID,
		"cashier_id":  order.CashierID,
		"status":      order.Status,
		"total_price": order.TotalPrice,
		"items":       lines,
	}
}
