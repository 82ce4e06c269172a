package repository

import (
	"context"

	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/reconcile"
)

// FeedSource delivers change events from the backend, one subscription per
// collection. Delivery is at-least-once with no ordering guarantee; the
// reconciler tolerates both. Cancelling the subscription context releases the
// backend listener and stops delivery deterministically.
type FeedSource interface {
	ArticleEvents(ctx context.Context, sellerID string) (<-chan reconcile.Event[model.Article], error)
	OrderEvents(ctx context.Context, sellerID string) (<-chan reconcile.Event[model.Order], error)
	BasketItemEvents(ctx context.Context, buyerID string) (<-chan reconcile.Event[model.OrderedProduct], error)
}
