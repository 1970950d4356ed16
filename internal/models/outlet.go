package models

import "time"

// Outlet is a physical store location printed on receipts.
type Outlet struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone" gorm:"type:varchar(30)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
