package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tokopos/internal/apperror"
	"tokopos/internal/database"
	"tokopos/internal/models"
	"tokopos/internal/repositories"
	"tokopos/internal/services"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type lifecycleContext struct {
	db       *gorm.DB
	orders   *services.OrderService
	payments *services.PaymentService
	bills    *services.BillService
	cashier  models.Principal

	products map[string]string
	order    *models.Order
	bill     *models.Bill
	second   *models.Bill
	lastErr  error
}

func (c *lifecycleContext) reset() error {
	if c.db != nil {
		if sqlDB, err := c.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	db, err := database.OpenInMemory()
	if err != nil {
		return err
	}

	uow := repositories.NewGORMUnitOfWork(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	log := zap.NewNop()

	cashier := models.User{ID: uuid.NewString(), Username: "kasir1", Email: "kasir1@example.com", Password: "x"}
	if err := db.Create(&cashier).Error; err != nil {
		return err
	}

	*c = lifecycleContext{
		db:       db,
		orders:   services.NewOrderService(uow, orderRepo, nil, nil, log),
		payments: services.NewPaymentService(uow, orderRepo, repositories.NewGORMPaymentRepository(db), services.PaymentPolicy{}, nil, nil, log),
		bills:    services.NewBillService(orderRepo, repositories.NewGORMOutletRepository(db), services.DefaultTaxRate, nil, log),
		cashier:  models.Principal{UserID: cashier.ID, Username: cashier.Username},
		products: map[string]string{},
	}
	return nil
}

// Given steps

func (c *lifecycleContext) aProductWithQuantityAndPrice(name string, quantity int, price int) error {
	p := models.Product{
		ID:       uuid.NewString(),
		Name:     name,
		Price:    decimal.NewFromInt(int64(price)),
		Quantity: quantity,
	}
	if err := c.db.Create(&p).Error; err != nil {
		return err
	}
	c.products[name] = p.ID
	return nil
}

// When steps

func (c *lifecycleContext) iOrder(quantity int, name string) error {
	id, ok := c.products[name]
	if !ok {
		return fmt.Errorf("unknown product %q", name)
	}
	c.order, c.lastErr = c.orders.CreateOrder(context.Background(), c.cashier, services.CreateOrderRequest{
		Items: []services.OrderItemRequest{{ProductID: id, Quantity: quantity}},
	})
	return nil
}

func (c *lifecycleContext) iPayBy(amount int, method string) error {
	if c.order == nil {
		return errors.New("no order has been created")
	}
	_, c.lastErr = c.payments.CreatePayment(context.Background(), c.cashier, services.CreatePaymentRequest{
		OrderID: c.order.ID,
		Amount:  decimal.NewFromInt(int64(amount)),
		Method:  models.PaymentMethod(method),
	})
	return nil
}

func (c *lifecycleContext) iCancelTheOrder() error {
	if c.order == nil {
		return errors.New("no order has been created")
	}
	_, c.lastErr = c.orders.CancelOrder(context.Background(), c.order.ID)
	return nil
}

func (c *lifecycleContext) iGenerateTheBillTwice() error {
	var err error
	if c.bill, err = c.bills.GenerateBill(context.Background(), c.order.ID); err != nil {
		return err
	}
	c.second, err = c.bills.GenerateBill(context.Background(), c.order.ID)
	return err
}

// Then steps

func (c *lifecycleContext) theOrderTotalIs(total int) error {
	if c.lastErr != nil {
		return c.lastErr
	}
	if !c.order.TotalPrice.Equal(decimal.NewFromInt(int64(total))) {
		return fmt.Errorf("expected total %d, got %s", total, c.order.TotalPrice)
	}
	return nil
}

func (c *lifecycleContext) theOrderStatusIs(status string) error {
	if c.lastErr != nil {
		return c.lastErr
	}
	var o models.Order
	if err := c.db.First(&o, "id = ?", c.order.ID).Error; err != nil {
		return err
	}
	if string(o.Status) != status {
		return fmt.Errorf("expected status %q, got %q", status, o.Status)
	}
	return nil
}

func (c *lifecycleContext) productHasQuantity(name string, quantity int) error {
	var p models.Product
	if err := c.db.First(&p, "id = ?", c.products[name]).Error; err != nil {
		return err
	}
	if p.Quantity != quantity {
		return fmt.Errorf("expected %s quantity %d, got %d", name, quantity, p.Quantity)
	}
	return nil
}

func (c *lifecycleContext) theRequestFailsWith(kind string) error {
	if c.lastErr == nil {
		return errors.New("expected the request to fail")
	}
	if got := apperror.KindOf(c.lastErr); string(got) != kind {
		return fmt.Errorf("expected %s, got %s (%v)", kind, got, c.lastErr)
	}
	return nil
}

func (c *lifecycleContext) theOrderHasPaymentOf(count int, amount int) error {
	var payments []models.Payment
	if err := c.db.Where("order_id = ?", c.order.ID).Find(&payments).Error; err != nil {
		return err
	}
	if len(payments) != count {
		return fmt.Errorf("expected %d payments, got %d", count, len(payments))
	}
	if count > 0 && !payments[0].Amount.Equal(decimal.NewFromInt(int64(amount))) {
		return fmt.Errorf("expected payment of %d, got %s", amount, payments[0].Amount)
	}
	return nil
}

func (c *lifecycleContext) theOrderHasPayments(count int) error {
	return c.theOrderHasPaymentOf(count, 0)
}

func (c *lifecycleContext) bothBillsAreIdentical() error {
	if c.bill.Text != c.second.Text || c.bill.HTML != c.second.HTML {
		return errors.New("bills differ between calls")
	}
	return nil
}

func (c *lifecycleContext) theBillTotalIsWithChange(total, change int) error {
	totals := c.bill.Data.Totals
	if !totals.Total.Equal(decimal.NewFromInt(int64(total))) {
		return fmt.Errorf("expected total %d, got %s", total, totals.Total)
	}
	if totals.Change == nil || !totals.Change.Equal(decimal.NewFromInt(int64(change))) {
		return fmt.Errorf("expected change %d, got %v", change, totals.Change)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	lc := &lifecycleContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, lc.reset()
	})

	ctx.Step(`^a product "([^"]*)" with quantity (\d+) and price (\d+)$`, lc.aProductWithQuantityAndPrice)

	ctx.Step(`^I order (\d+) of "([^"]*)"$`, lc.iOrder)
	ctx.Step(`^I pay (\d+) by "([^"]*)"$`, lc.iPayBy)
	ctx.Step(`^I cancel the order$`, lc.iCancelTheOrder)
	ctx.Step(`^I generate the bill twice$`, lc.iGenerateTheBillTwice)

	ctx.Step(`^the order total is (\d+)$`, lc.theOrderTotalIs)
	ctx.Step(`^the order status is "([^"]*)"$`, lc.theOrderStatusIs)
	ctx.Step(`^"([^"]*)" has quantity (\d+)$`, lc.productHasQuantity)
	ctx.Step(`^the request fails with "([^"]*)"$`, lc.theRequestFailsWith)
	ctx.Step(`^the order has (\d+) payment of (\d+)$`, lc.theOrderHasPaymentOf)
	ctx.Step(`^the order has (\d+) payments$`, lc.theOrderHasPayments)
	ctx.Step(`^both bills are identical$`, lc.bothBillsAreIdentical)
	ctx.Step(`^the bill total is (\d+) with change (\d+)$`, lc.theBillTotalIsWithChange)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"order_lifecycle.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
