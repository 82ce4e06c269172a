package handlers

import (
	"context"
	"time"

	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/schedule"
)

// CatalogFacade describes catalog queries required by handlers.
type CatalogFacade interface {
	Articles(category, query string) []model.Article
}

// BasketFacade encapsulates draft basket operations exposed via HTTP. The
// buyer identity is fixed per device, so it never travels in requests.
type BasketFacade interface {
	Basket(ctx context.Context) (model.DraftBasket, error)
	SetBasketItem(ctx context.Context, item model.OrderedProduct) (model.DraftBasket, error)
	RemoveBasketItem(ctx context.Context, id string) (model.DraftBasket, error)
	SetPickupDate(ctx context.Context, pickup time.Time) (model.DraftBasket, error)
	StartNewOrder(ctx context.Context) (model.DraftBasket, error)
	LoadOrderForEdit(ctx context.Context, orderID string) (model.DraftBasket, error)
	Checkout(ctx context.Context, buyer model.BuyerProfile, message string) (*model.Order, error)
}

// OrderFacade provides order queries and user-invoked lifecycle operations.
type OrderFacade interface {
	Order(ctx context.Context, id string) (*model.Order, error)
	Orders(ctx context.Context, role model.OrderRole) ([]model.Order, error)
	CancelOrder(ctx context.Context, id string) (*model.Order, error)
	HideOrder(ctx context.Context, id string, role model.OrderRole) error
	OrderWindow(ctx context.Context, id string) (schedule.Window, time.Duration, error)
}

// MarketFacade aggregates the full set of operations used across handlers.
type MarketFacade interface {
	CatalogFacade
	BasketFacade
	OrderFacade
}
