package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/leiter/marketday/internal/domain/errors"
	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/domain/repository"
	"github.com/leiter/marketday/internal/reconcile"
)

// FeedPump subscribes to the backend change feeds and folds every event into
// the in-memory stores, persisting catalog and order changes so a restart can
// warm-start from the local database.
type FeedPump struct {
	source      repository.FeedSource
	articles    *reconcile.Store[model.Article]
	orders      *reconcile.Store[model.Order]
	basketItems *reconcile.Store[model.OrderedProduct]
	catalog     repository.CatalogRepository
	orderRepo   repository.OrderRepository
	baskets     repository.BasketRepository
	sellerID    string
	buyerID     string
	retry       time.Duration
	logger      *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewFeedPump constructs the pump. Retry is the pause before resubscribing
// after a subscription fails or its stream terminates.
func NewFeedPump(
	source repository.FeedSource,
	articles *reconcile.Store[model.Article],
	orders *reconcile.Store[model.Order],
	basketItems *reconcile.Store[model.OrderedProduct],
	catalog repository.CatalogRepository,
	orderRepo repository.OrderRepository,
	baskets repository.BasketRepository,
	sellerID, buyerID string,
	retry time.Duration,
	logger *slog.Logger,
) *FeedPump {
	if retry <= 0 {
		retry = 5 * time.Second
	}
	return &FeedPump{
		source:      source,
		articles:    articles,
		orders:      orders,
		basketItems: basketItems,
		catalog:     catalog,
		orderRepo:   orderRepo,
		baskets:     baskets,
		sellerID:    sellerID,
		buyerID:     buyerID,
		retry:       retry,
		logger:      logger,
	}
}

// Start seeds the stores from local persistence and launches one pump
// goroutine per collection.
func (p *FeedPump) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.seed(runCtx)

	p.wg.Add(3)
	go func() {
		defer p.wg.Done()
		runFeed(runCtx, "articles", p.retry, p.logger, p.articles,
			func(ctx context.Context) (<-chan reconcile.Event[model.Article], error) {
				return p.source.ArticleEvents(ctx, p.sellerID)
			},
			p.persistArticle)
	}()
	go func() {
		defer p.wg.Done()
		runFeed(runCtx, "orders", p.retry, p.logger, p.orders,
			func(ctx context.Context) (<-chan reconcile.Event[model.Order], error) {
				return p.source.OrderEvents(ctx, p.sellerID)
			},
			p.persistOrder)
	}()
	go func() {
		defer p.wg.Done()
		runFeed(runCtx, "basket-items", p.retry, p.logger, p.basketItems,
			func(ctx context.Context) (<-chan reconcile.Event[model.OrderedProduct], error) {
				return p.source.BasketItemEvents(ctx, p.buyerID)
			},
			nil)
	}()
}

// Stop cancels the subscriptions and waits for the pumps to drain.
func (p *FeedPump) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// seed warms the stores from the local database so the UI has data before the
// first feed event arrives.
func (p *FeedPump) seed(ctx context.Context) {
	if articles, err := p.catalog.ListBySeller(ctx, p.sellerID); err != nil {
		p.logger.Warn("seed articles failed", slog.String("error", err.Error()))
	} else {
		p.articles.Replace(articles)
	}

	// Both parties read their lists from the same store, so the seed merges
	// the seller-side and buyer-side orders.
	sellerOrders, sellerErr := p.orderRepo.ListBySeller(ctx, p.sellerID)
	if sellerErr != nil {
		p.logger.Warn("seed seller orders failed", slog.String("error", sellerErr.Error()))
	}
	buyerOrders, buyerErr := p.orderRepo.ListByBuyer(ctx, p.buyerID)
	if buyerErr != nil {
		p.logger.Warn("seed buyer orders failed", slog.String("error", buyerErr.Error()))
	}
	if sellerErr == nil || buyerErr == nil {
		p.orders.Replace(mergeOrders(sellerOrders, buyerOrders))
	}

	basket, err := p.baskets.GetByBuyer(ctx, p.buyerID)
	switch {
	case err == nil:
		p.basketItems.Replace(basket.Items)
	case errors.Is(err, domainErrors.ErrNotFound):
	default:
		p.logger.Warn("seed basket failed", slog.String("error", err.Error()))
	}
}

// mergeOrders concatenates the lists, keeping the first entry per id. An
// order where the device acts as both parties appears once.
func mergeOrders(lists ...[]model.Order) []model.Order {
	seen := make(map[string]struct{})
	var out []model.Order
	for _, list := range lists {
		for _, order := range list {
			if _, ok := seen[order.ID]; ok {
				continue
			}
			seen[order.ID] = struct{}{}
			out = append(out, order)
		}
	}
	return out
}

func (p *FeedPump) persistArticle(ctx context.Context, ev reconcile.Event[model.Article]) error {
	switch ev.Type {
	case reconcile.EventAdded, reconcile.EventChanged:
		return p.catalog.Save(ctx, p.sellerID, ev.Value)
	case reconcile.EventRemoved:
		return p.catalog.Delete(ctx, p.sellerID, ev.ID)
	}
	return nil
}

func (p *FeedPump) persistOrder(ctx context.Context, ev reconcile.Event[model.Order]) error {
	switch ev.Type {
	case reconcile.EventAdded, reconcile.EventChanged:
		return p.orderRepo.Save(ctx, ev.Value)
	}
	// Orders are never deleted from local persistence, only hidden.
	return nil
}

// runFeed keeps one collection subscribed until the context is cancelled,
// resubscribing after stream termination. Persistence failures are logged and
// do not interrupt folding: the store stays ahead of the database.
func runFeed[T any](
	ctx context.Context,
	name string,
	retry time.Duration,
	logger *slog.Logger,
	store *reconcile.Store[T],
	subscribe func(context.Context) (<-chan reconcile.Event[T], error),
	persist func(context.Context, reconcile.Event[T]) error,
) {
	for {
		events, err := subscribe(ctx)
		if err != nil {
			logger.Error("feed subscribe failed", slog.String("collection", name), slog.String("error", err.Error()))
			if !sleep(ctx, retry) {
				return
			}
			continue
		}

		if !consume(ctx, events, store, persist, logger, name) {
			return
		}

		logger.Warn("feed stream ended, resubscribing", slog.String("collection", name))
		if !sleep(ctx, retry) {
			return
		}
	}
}

// consume folds events until the channel closes or the context is cancelled.
// It reports false when the caller should stop instead of resubscribing.
func consume[T any](
	ctx context.Context,
	events <-chan reconcile.Event[T],
	store *reconcile.Store[T],
	persist func(context.Context, reconcile.Event[T]) error,
	logger *slog.Logger,
	name string,
) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return true
			}
			store.Apply(ev)
			if persist != nil {
				if err := persist(ctx, ev); err != nil {
					logger.Error("persist feed event failed",
						slog.String("collection", name),
						slog.String("id", ev.ID),
						slog.String("error", err.Error()))
				}
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
