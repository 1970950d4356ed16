package models

import "time"

// User represents a user of the store. Cashiers belong to an outlet.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password  string    `json:"password,omitempty" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role      string    `json:"role" gorm:"type:varchar(30);default:cashier"`
	OutletID  *string   `json:"outlet_id,omitempty" gorm:"type:varchar(36);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Principal is the authenticated caller resolved from a token.
type Principal struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
