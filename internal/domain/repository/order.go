package repository

import (
	"context"

	"github.com/leiter/marketday/internal/domain/model"
)

// OrderRepository describes persistence operations with orders. Orders are
// never deleted, only saved with a new status or hidden per side.
type OrderRepository interface {
	Save(ctx context.Context, order model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListBySeller(ctx context.Context, sellerID string) ([]model.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error)
	SetHidden(ctx context.Context, id string, role model.OrderRole, hidden bool) error
}
