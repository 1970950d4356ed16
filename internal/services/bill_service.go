package services

import (
	"context"

	"tokopos/internal/apperror"
	"tokopos/internal/metrics"
	"tokopos/internal/models"
	"tokopos/internal/receipt"
	"tokopos/internal/repositories"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const useCaseBillGenerate = "bill_generate"

// DefaultTaxRate is applied when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.10")

// BillService builds receipts from stored orders. It never writes.
type BillService struct {
	orders  repositories.OrderRepository
	outlets repositories.OutletRepository
	taxRate decimal.Decimal
	observer
}

func NewBillService(orders repositories.OrderRepository, outlets repositories.OutletRepository, taxRate decimal.Decimal, m *metrics.Metrics, log *zap.Logger) *BillService {
	return &BillService{
		orders:   orders,
		outlets:  outlets,
		taxRate:  taxRate,
		observer: newObserver(log, m),
	}
}

// GetBillData loads the order with items, products, payments and cashier.
func (s *BillService) GetBillData(ctx context.Context, orderID string) (*models.Order, error) {
	return s.orders.GetWithDetails(ctx, orderID)
}

// GenerateBill computes totals and renders the text and HTML receipts. Output
// depends only on stored data, so repeated calls return identical bills.
func (s *BillService) GenerateBill(ctx context.Context, orderID string) (bill *models.Bill, err error) {
	ctx, done := s.track(ctx, useCaseBillGenerate, attribute.String("order.id", orderID))
	defer func() { done(err) }()

	order, err := s.orders.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var outlet *models.Outlet
	if order.Cashier != nil && order.Cashier.OutletID != nil {
		found, lookupErr := s.outlets.GetByID(ctx, *order.Cashier.OutletID)
		switch {
		case lookupErr == nil:
			outlet = found
		case !apperror.Is(lookupErr, apperror.KindNotFound):
			return nil, lookupErr
		}
	}

	data := BuildBillData(order, outlet, s.taxRate)
	html, err := receipt.HTML(data)
	if err != nil {
		return nil, err
	}
	return &models.Bill{
		HTML: html,
		Text: receipt.Text(data),
		Data: data,
	}, nil
}

// BuildBillData composes the structured bill. Tax is subtotal * taxRate rounded
// to two places; change is only set when a payment exists.
func BuildBillData(order *models.Order, outlet *models.Outlet, taxRate decimal.Decimal) models.BillData {
	data := models.BillData{
		Order: models.BillOrder{
			ID:         order.ID,
			CustomerID: order.CustomerID,
			Status:     order.Status,
			CreatedAt:  order.CreatedAt,
		},
		Items: make([]models.BillLine, len(order.Items)),
	}

	if outlet != nil {
		data.Outlet = &models.BillOutlet{ID: outlet.ID, Name: outlet.Name, Address: outlet.Address, Phone: outlet.Phone}
	}
	if order.Cashier != nil {
		data.Cashier = &models.BillCashier{ID: order.Cashier.ID, Username: order.Cashier.Username}
	}

	for i, item := range order.Items {
		name := item.ProductID
		if item.Product != nil {
			name = item.Product.Name
		}
		data.Items[i] = models.BillLine{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.PriceAtOrder,
			LineTotal:   item.LineTotal(),
		}
	}

	subtotal := order.TotalPrice
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax)
	data.Totals = models.BillTotals{
		Subtotal: subtotal,
		TaxRate:  taxRate,
		Tax:      tax,
		Total:    total,
		Paid:     decimal.Zero,
	}

	if len(order.Payments) > 0 {
		p := order.Payments[0]
		data.Payment = &models.BillPayment{ID: p.ID, Amount: p.Amount, Method: p.Method, PaidAt: p.PaidAt}
		change := decimal.Max(decimal.Zero, p.Amount.Sub(total))
		data.Totals.Paid = p.Amount
		data.Totals.Change = &change
	}
	return data
}
