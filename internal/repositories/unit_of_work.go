package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Tx exposes the repositories bound to one database transaction.
type Tx interface {
	Inventory() InventoryLedger
	Orders() OrderRepository
	Payments() PaymentRepository
}

// UnitOfWork runs fn inside a single transaction. The transaction commits only
// if fn returns nil; any error or panic rolls back every write made through tx.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx Tx) error) error
}

// GORMUnitOfWork is a GORM implementation of UnitOfWork.
type GORMUnitOfWork struct {
	db *gorm.DB
}

// NewGORMUnitOfWork creates a new instance of GORMUnitOfWork.
func NewGORMUnitOfWork(db *gorm.DB) *GORMUnitOfWork {
	return &GORMUnitOfWork{db: db}
}

func (u *GORMUnitOfWork) Do(ctx context.Context, fn func(tx Tx) error) error {
	return u.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Inventory() InventoryLedger  { return &gormInventoryLedger{db: t.db} }
func (t *gormTx) Orders() OrderRepository     { return NewGORMOrderRepository(t.db) }
func (t *gormTx) Payments() PaymentRepository { return NewGORMPaymentRepository(t.db) }
