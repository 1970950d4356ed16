package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is a receipt recomputed from stored state on every request.
type Bill struct {
	HTML string   `json:"html"`
	Text string   `json:"text"`
	Data BillData `json:"data"`
}

type BillData struct {
	Order   BillOrder    `json:"order"`
	Outlet  *BillOutlet  `json:"outlet"`
	Cashier *BillCashier `json:"cashier"`
	Payment *BillPayment `json:"payment"`
	Items   []BillLine   `json:"items"`
	Totals  BillTotals   `json:"totals"`
}

type BillOrder struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

type BillOutlet struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type BillCashier struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type BillPayment struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Method PaymentMethod   `json:"method"`
	PaidAt time.Time       `json:"paid_at"`
}

type BillLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// BillTotals holds the computed amounts. Change is nil until the order is paid.
type BillTotals struct {
	Subtotal decimal.Decimal  `json:"subtotal"`
	TaxRate  decimal.Decimal  `json:"tax_rate"`
	Tax      decimal.Decimal  `json:"tax"`
	Total    decimal.Decimal  `json:"total"`
	Paid     decimal.Decimal  `json:"paid"`
	Change   *decimal.Decimal `json:"change"`
}
