package test

import (
	"context"
	"sync"

	domainErrors "github.com/leiter/marketday/internal/domain/errors"
	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/reconcile"
)

// CatalogRepositoryStub stores catalog articles in-memory for tests.
type CatalogRepositoryStub struct {
	mu       sync.Mutex
	Articles map[string]model.Article
	Err      error
}

// NewCatalogRepositoryStub constructs stub repository with initialized maps.
func NewCatalogRepositoryStub() *CatalogRepositoryStub {
	return &CatalogRepositoryStub{Articles: make(map[string]model.Article)}
}

func (s *CatalogRepositoryStub) Save(_ context.Context, _ string, article model.Article) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Articles == nil {
		s.Articles = make(map[string]model.Article)
	}
	s.Articles[article.ID] = article
	return nil
}

func (s *CatalogRepositoryStub) Delete(_ context.Context, _ string, articleID string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Articles, articleID)
	return nil
}

func (s *CatalogRepositoryStub) ListBySeller(context.Context, string) ([]model.Article, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Article, 0, len(s.Articles))
	for _, a := range s.Articles {
		out = append(out, a)
	}
	return out, nil
}

// OrderRepositoryStub stores orders in-memory for tests.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]model.Order
	Err    error
}

// NewOrderRepositoryStub constructs stub repository with initialized maps.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]model.Order)}
}

func (s *OrderRepositoryStub) Save(_ context.Context, order model.Order) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[string]model.Order)
	}
	s.Orders[order.ID] = order
	return nil
}

func (s *OrderRepositoryStub) GetByID(_ context.Context, id string) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &order, nil
}

func (s *OrderRepositoryStub) ListBySeller(_ context.Context, sellerID string) ([]model.Order, error) {
	return s.list(func(o model.Order) bool { return o.SellerID == sellerID })
}

func (s *OrderRepositoryStub) ListByBuyer(_ context.Context, buyerID string) ([]model.Order, error) {
	return s.list(func(o model.Order) bool { return o.BuyerID == buyerID })
}

func (s *OrderRepositoryStub) list(keep func(model.Order) bool) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range s.Orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *OrderRepositoryStub) SetHidden(_ context.Context, id string, role model.OrderRole, hidden bool) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if role == model.RoleSeller {
		order.HiddenBySeller = hidden
	} else {
		order.HiddenByBuyer = hidden
	}
	s.Orders[id] = order
	return nil
}

// BasketRepositoryStub stores draft baskets in-memory for tests.
type BasketRepositoryStub struct {
	mu      sync.Mutex
	Baskets map[string]model.DraftBasket
	Err     error
}

// NewBasketRepositoryStub constructs stub repository with initialized maps.
func NewBasketRepositoryStub() *BasketRepositoryStub {
	return &BasketRepositoryStub{Baskets: make(map[string]model.DraftBasket)}
}

func (s *BasketRepositoryStub) Save(_ context.Context, basket model.DraftBasket) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Baskets == nil {
		s.Baskets = make(map[string]model.DraftBasket)
	}
	s.Baskets[basket.BuyerID] = basket
	return nil
}

func (s *BasketRepositoryStub) GetByBuyer(_ context.Context, buyerID string) (*model.DraftBasket, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	basket, ok := s.Baskets[buyerID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &basket, nil
}

func (s *BasketRepositoryStub) Delete(_ context.Context, buyerID string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Baskets, buyerID)
	return nil
}

// FeedSourceStub exposes hand-fed event channels as a backend change feed.
type FeedSourceStub struct {
	ArticleCh    chan reconcile.Event[model.Article]
	OrderCh      chan reconcile.Event[model.Order]
	BasketItemCh chan reconcile.Event[model.OrderedProduct]
	Err          error
}

// NewFeedSourceStub constructs a stub with buffered channels.
func NewFeedSourceStub() *FeedSourceStub {
	return &FeedSourceStub{
		ArticleCh:    make(chan reconcile.Event[model.Article], 16),
		OrderCh:      make(chan reconcile.Event[model.Order], 16),
		BasketItemCh: make(chan reconcile.Event[model.OrderedProduct], 16),
	}
}

func (s *FeedSourceStub) ArticleEvents(context.Context, string) (<-chan reconcile.Event[model.Article], error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.ArticleCh, nil
}

func (s *FeedSourceStub) OrderEvents(context.Context, string) (<-chan reconcile.Event[model.Order], error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.OrderCh, nil
}

func (s *FeedSourceStub) BasketItemEvents(context.Context, string) (<-chan reconcile.Event[model.OrderedProduct], error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.BasketItemCh, nil
}
