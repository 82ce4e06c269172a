package app

import (
	"context"
	"time"

	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/schedule"
	"github.com/leiter/marketday/internal/usecase"
)

// MarketFacade binds the use cases to the identities configured for this
// device: one buyer, one seller, one market.
type MarketFacade struct {
	catalog *usecase.CatalogUseCase
	basket  *usecase.BasketUseCase
	orders  *usecase.OrderUseCase

	buyerID  string
	sellerID string
	marketID string
}

// NewMarketFacade constructs MarketFacade.
func NewMarketFacade(catalog *usecase.CatalogUseCase, basket *usecase.BasketUseCase, orders *usecase.OrderUseCase, buyerID, sellerID, marketID string) *MarketFacade {
	return &MarketFacade{
		catalog:  catalog,
		basket:   basket,
		orders:   orders,
		buyerID:  buyerID,
		sellerID: sellerID,
		marketID: marketID,
	}
}

func (f *MarketFacade) Articles(category, query string) []model.Article {
	return f.catalog.ListArticles(category, query)
}

func (f *MarketFacade) ObserveArticles(ctx context.Context) <-chan []model.Article {
	return f.catalog.ObserveArticles(ctx)
}

func (f *MarketFacade) ObserveOrders(ctx context.Context) <-chan []model.Order {
	return f.orders.Observe(ctx)
}

func (f *MarketFacade) Basket(ctx context.Context) (model.DraftBasket, error) {
	return f.basket.Current(ctx, f.buyerID)
}

func (f *MarketFacade) SetBasketItem(ctx context.Context, item model.OrderedProduct) (model.DraftBasket, error) {
	return f.basket.AddOrUpdateItem(ctx, f.buyerID, item)
}

func (f *MarketFacade) RemoveBasketItem(ctx context.Context, id string) (model.DraftBasket, error) {
	return f.basket.RemoveItem(ctx, f.buyerID, id)
}

func (f *MarketFacade) SetPickupDate(ctx context.Context, pickup time.Time) (model.DraftBasket, error) {
	return f.basket.SetPickupDate(ctx, f.buyerID, pickup)
}

func (f *MarketFacade) StartNewOrder(ctx context.Context) (model.DraftBasket, error) {
	return f.basket.StartNewOrder(ctx, f.buyerID)
}

func (f *MarketFacade) LoadOrderForEdit(ctx context.Context, orderID string) (model.DraftBasket, error) {
	return f.basket.LoadOrderForEdit(ctx, f.buyerID, orderID)
}

func (f *MarketFacade) Checkout(ctx context.Context, buyer model.BuyerProfile, message string) (*model.Order, error) {
	return f.basket.Checkout(ctx, f.buyerID, buyer, f.sellerID, f.marketID, message)
}

func (f *MarketFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *MarketFacade) Orders(ctx context.Context, role model.OrderRole) ([]model.Order, error) {
	partyID := f.buyerID
	if role == model.RoleSeller {
		partyID = f.sellerID
	}
	return f.orders.ListForRole(ctx, role, partyID)
}

func (f *MarketFacade) CancelOrder(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Cancel(ctx, id)
}

func (f *MarketFacade) HideOrder(ctx context.Context, id string, role model.OrderRole) error {
	return f.orders.Hide(ctx, id, role)
}

func (f *MarketFacade) OrderWindow(ctx context.Context, id string) (schedule.Window, time.Duration, error) {
	return f.orders.Window(ctx, id)
}
