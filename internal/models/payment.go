package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod represents how an order was paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentQRIS     PaymentMethod = "qris"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentEWallet  PaymentMethod = "e_wallet"
)

type PaymentStatus string

const PaymentStatusCompleted PaymentStatus = "completed"

// Payment is an immutable record of funds received against an order.
// OrderID is unique: an order is paid at most once.
type Payment struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(14,2);not null"`
	Method    PaymentMethod   `json:"method" gorm:"type:varchar(20);not null"`
	Status    PaymentStatus   `json:"status" gorm:"type:varchar(20);not null"`
	PaidAt    time.Time       `json:"paid_at"`
	CreatedAt time.Time       `json:"created_at"`
}
