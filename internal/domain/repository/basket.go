package repository

import (
	"context"

	"github.com/leiter/marketday/internal/domain/model"
)

// BasketRepository persists one draft basket per buyer. The draft is
// opportunistic state for cross-device continuity; it only becomes
// authoritative once an order is placed from it.
type BasketRepository interface {
	Save(ctx context.Context, basket model.DraftBasket) error
	GetByBuyer(ctx context.Context, buyerID string) (*model.DraftBasket, error)
	Delete(ctx context.Context, buyerID string) error
}
