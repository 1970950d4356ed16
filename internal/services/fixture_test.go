package services_test

import (
	"context"
	"testing"

	"tokopos/internal/database"
	"tokopos/internal/events"
	"tokopos/internal/models"
	"tokopos/internal/repositories"
	"tokopos/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockPublisher is a mock implementation of events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev events.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func eventOf(t events.Type, orderID string) any {
	return mock.MatchedBy(func(ev events.Event) bool {
		return ev.Type == t && ev.OrderID == orderID
	})
}

type fixture struct {
	db        *gorm.DB
	publisher *MockPublisher
	orders    *services.OrderService
	payments  *services.PaymentService
	bills     *services.BillService
	cashier   models.Principal
	outlet    models.Outlet
}

func newFixture(t *testing.T, policy services.PaymentPolicy) *fixture {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uow := repositories.NewGORMUnitOfWork(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	paymentRepo := repositories.NewGORMPaymentRepository(db)
	outletRepo := repositories.NewGORMOutletRepository(db)
	log := zap.NewNop()

	outlet := models.Outlet{Name: "Toko Maju", Address: "Jl. Merdeka 1", Phone: "021-555"}
	require.NoError(t, outletRepo.Create(context.Background(), &outlet))

	cashier := models.User{
		ID:       uuid.NewString(),
		Username: "kasir1",
		Email:    "kasir1@example.com",
		Password: "hashed",
		Role:     "cashier",
		OutletID: &outlet.ID,
	}
	require.NoError(t, db.Create(&cashier).Error)

	return &fixture{
		db:        db,
		publisher: publisher,
		orders:    services.NewOrderService(uow, orderRepo, publisher, nil, log),
		payments:  services.NewPaymentService(uow, orderRepo, paymentRepo, policy, publisher, nil, log),
		bills:     services.NewBillService(orderRepo, outletRepo, services.DefaultTaxRate, nil, log),
		cashier:   models.Principal{UserID: cashier.ID, Username: cashier.Username},
		outlet:    outlet,
	}
}

func (f *fixture) product(t *testing.T, name string, price string, quantity int) models.Product {
	t.Helper()
	p := models.Product{
		ID:       uuid.NewString(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) quantity(t *testing.T, productID string) int {
	t.Helper()
	var p models.Product
	require.NoError(t, f.db.First(&p, "id = ?", productID).Error)
	return p.Quantity
}

func (f *fixture) order(t *testing.T, id string) models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, f.db.Preload("Items").First(&o, "id = ?", id).Error)
	return o
}

func (f *fixture) paymentCount(t *testing.T, orderID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Payment{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}

func items(lines ...services.OrderItemRequest) services.CreateOrderRequest {
	return services.CreateOrderRequest{Items: lines}
}

func line(productID string, quantity int) services.OrderItemRequest {
	return services.OrderItemRequest{ProductID: productID, Quantity: quantity}
}

func cash(orderID, amount string) services.CreatePaymentRequest {
	return services.CreatePaymentRequest{
		OrderID: orderID,
		Amount:  decimal.RequireFromString(amount),
		Method:  models.PaymentCash,
	}
}
