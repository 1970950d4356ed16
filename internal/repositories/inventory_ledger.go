package repositories

import (
	"context"
	"fmt"
	"math"
	"sort"

	"tokopos/internal/apperror"
	"tokopos/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRequest asks for Quantity units of a product.
type StockRequest struct {
	ProductID string
	Quantity  int
}

// InventoryLedger owns Product.Quantity. It is only reachable through a Tx.
type InventoryLedger interface {
	// Reserve validates every request before decrementing anything. Requests for
	// the same product are summed. It returns the reserved products by id with
	// their post-reservation quantity.
	Reserve(ctx context.Context, reqs []StockRequest) (map[string]models.Product, error)
	// Release gives the quantities back. There is no upper bound.
	Release(ctx context.Context, reqs []StockRequest) error
}

type gormInventoryLedger struct {
	db *gorm.DB
}

func (l *gormInventoryLedger) Reserve(ctx context.Context, reqs []StockRequest) (map[string]models.Product, error) {
	ids, demand, err := aggregate(reqs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return map[string]models.Product{}, nil
	}

	// Lock rows in id order so concurrent reservations cannot deadlock.
	locked := append([]string(nil), ids...)
	sort.Strings(locked)

	var products []models.Product
	err = l.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", locked).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, apperror.NotFound("product", id)
		}
		if p.Quantity < demand[id] {
			return nil, apperror.InsufficientStock(p.Name, demand[id], p.Quantity)
		}
	}

	for _, id := range locked {
		n := demand[id]
		res := l.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ? AND quantity >= ?", id, n).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", n))
		if res.Error != nil {
			return nil, fmt.Errorf("failed to decrement stock for product %s: %w", id, res.Error)
		}
		p := byID[id]
		if res.RowsAffected != 1 {
			return nil, apperror.InsufficientStock(p.Name, n, p.Quantity)
		}
		p.Quantity -= n
		byID[id] = p
	}

	return byID, nil
}

func (l *gormInventoryLedger) Release(ctx context.Context, reqs []StockRequest) error {
	ids, amount, err := aggregate(reqs)
	if err != nil {
		return err
	}
	sort.Strings(ids)
	for _, id := range ids {
		err = l.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", amount[id])).Error
		if err != nil {
			return fmt.Errorf("failed to restore stock for product %s: %w", id, err)
		}
	}
	return nil
}

// aggregate sums quantities per product, keeping first-seen order. Every
// quantity must be positive and no sum may overflow.
func aggregate(reqs []StockRequest) ([]string, map[string]int, error) {
	ids := make([]string, 0, len(reqs))
	total := make(map[string]int, len(reqs))
	for _, r := range reqs {
		if r.Quantity <= 0 {
			return nil, nil, apperror.Validation("quantity for product %s must be positive, got %d", r.ProductID, r.Quantity)
		}
		sum, seen := total[r.ProductID]
		if !seen {
			ids = append(ids, r.ProductID)
		}
		if sum > math.MaxInt-r.Quantity {
			return nil, nil, apperror.Validation("total quantity for product %s is out of range", r.ProductID)
		}
		total[r.ProductID] = sum + r.Quantity
	}
	return ids, total, nil
}
