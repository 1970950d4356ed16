package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the store. Quantity is the sellable stock
// and is only changed by order creation and cancellation.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(14,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null;default:0;check:chk_products_quantity,quantity >= 0" validate:"gte=0"`
	CategoryID  *string         `json:"category_id,omitempty" gorm:"type:varchar(36);index"`
	OutletID    *string         `json:"outlet_id,omitempty" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
