package receipt_test

import (
	"strings"
	"testing"
	"time"

	"tokopos/internal/models"
	"tokopos/internal/receipt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidBill() models.BillData {
	created := time.Date(2024, 3, 9, 10, 15, 0, 0, time.UTC)
	change := decimal.RequireFromString("700")
	return models.BillData{
		Order: models.BillOrder{
			ID:         "3f0d8f1e-8a4c-4c1f-9e0b-5a2f1c7d9e11",
			CustomerID: "cust-1",
			Status:     models.StatusCompleted,
			CreatedAt:  created,
		},
		Outlet:  &models.BillOutlet{ID: "o-1", Name: "Toko Maju", Address: "Jl. Merdeka 1", Phone: "021-555"},
		Cashier: &models.BillCashier{ID: "u-1", Username: "kasir1"},
		Payment: &models.BillPayment{
			ID:     "pay-1",
			Amount: decimal.RequireFromString("4000"),
			Method: models.PaymentCash,
			PaidAt: created.Add(5 * time.Minute),
		},
		Items: []models.BillLine{{
			ProductID:   "p-1",
			ProductName: "Kopi <Susu>",
			Quantity:    3,
			UnitPrice:   decimal.RequireFromString("1000"),
			LineTotal:   decimal.RequireFromString("3000"),
		}},
		Totals: models.BillTotals{
			Subtotal: decimal.RequireFromString("3000"),
			TaxRate:  decimal.RequireFromString("0.1"),
			Tax:      decimal.RequireFromString("300"),
			Total:    decimal.RequireFromString("3300"),
			Paid:     decimal.RequireFromString("4000"),
			Change:   &change,
		},
	}
}

func TestTextReceipt(t *testing.T) {
	text := receipt.Text(paidBill())

	assert.Contains(t, text, "Toko Maju")
	assert.Contains(t, text, "Cashier: kasir1")
	assert.Contains(t, text, "Date: 2024-03-09 10:15:00")
	assert.Contains(t, text, "  3 x 1000.00")
	assert.Contains(t, text, "Tax (10%)")
	assert.Contains(t, text, "3300.00")
	assert.Contains(t, text, "Change")
	assert.Contains(t, text, "700.00")
	assert.Contains(t, text, "Order: 3f0d8f1e-8a4c-4c...")

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "Subtotal") || strings.HasPrefix(line, "TOTAL") {
			assert.Equal(t, 40, len(line), line)
		}
	}
}

func TestTextReceiptUnpaid(t *testing.T) {
	data := paidBill()
	data.Payment = nil
	data.Outlet = nil
	data.Totals.Paid = decimal.Zero
	data.Totals.Change = nil

	text := receipt.Text(data)
	assert.Contains(t, text, "RECEIPT")
	assert.Contains(t, text, "Payment: UNPAID")
	assert.NotContains(t, text, "Change")
}

func TestHTMLReceiptEscapesAndIsStable(t *testing.T) {
	first, err := receipt.HTML(paidBill())
	require.NoError(t, err)
	second, err := receipt.HTML(paidBill())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Kopi &lt;Susu&gt;")
	assert.Contains(t, first, "<td class=\"num\">700.00</td>")
	assert.Contains(t, first, "Tax (10%)")
}

func TestHTMLReceiptUnpaid(t *testing.T) {
	data := paidBill()
	data.Payment = nil
	data.Totals.Change = nil

	html, err := receipt.HTML(data)
	require.NoError(t, err)
	assert.Contains(t, html, "Payment: UNPAID")
	assert.NotContains(t, html, "Change")
}
