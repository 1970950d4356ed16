package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusOnProgress OrderStatus = "on_progress"
	// StatusPendingPayment and StatusPaid are accepted by cancellation but no
	// operation currently moves an order into them.
	StatusPendingPayment OrderStatus = "pending_payment"
	StatusPaid           OrderStatus = "paid"
	StatusCompleted      OrderStatus = "completed"
	StatusCanceled       OrderStatus = "canceled"
)

// PayableStatus is the only status a payment can be recorded against.
const PayableStatus = StatusOnProgress

var orderTransitions = map[OrderStatus]map[OrderStatus]bool{
	StatusOnProgress:     {StatusCompleted: true, StatusCanceled: true},
	StatusPendingPayment: {StatusCanceled: true},
	StatusPaid:           {StatusCanceled: true},
	StatusCompleted:      {},
	StatusCanceled:       {},
}

func (s OrderStatus) String() string { return string(s) }

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s.Valid() && len(orderTransitions[s]) == 0
}

// Cancellable reports whether an order in status s may be canceled.
func (s OrderStatus) Cancellable() bool {
	return CanTransition(s, StatusCanceled)
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return orderTransitions[from][to]
}

// CancellableStatuses lists every status that may move to StatusCanceled.
func CancellableStatuses() []OrderStatus {
	return []OrderStatus{StatusOnProgress, StatusPendingPayment, StatusPaid}
}

// OrderItem is one line of an order. PriceAtOrder is the product's unit price
// when the order was created and is never recomputed.
type OrderItem struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID      string          `json:"order_id" gorm:"type:varchar(36);index;not null"`
	Line         int             `json:"line" gorm:"not null"`
	ProductID    string          `json:"product_id" gorm:"type:varchar(36);index;not null"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	PriceAtOrder decimal.Decimal `json:"price_at_order" gorm:"type:decimal(14,2);not null"`
	Product      *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LineTotal is Quantity * PriceAtOrder.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a customer order.
type Order struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID string          `json:"customer_id" gorm:"type:varchar(36);index;not null"`
	CashierID  string          `json:"cashier_id" gorm:"type:varchar(36);index;not null"`
	Status     OrderStatus     `json:"status" gorm:"type:varchar(20);index;not null"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(14,2);not null"`
	Items      []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Payments   []Payment       `json:"payments,omitempty" gorm:"foreignKey:OrderID"`
	Cashier    *User           `json:"cashier,omitempty" gorm:"foreignKey:CashierID"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ItemsTotal sums the line totals. For a stored order it equals TotalPrice.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
