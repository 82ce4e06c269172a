package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/leiter/marketday/internal/domain/errors"
	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/reconcile"
)

type fakeFeed struct {
	mu          sync.Mutex
	articleSubs int
	articles    []chan reconcile.Event[model.Article]
	orders      chan reconcile.Event[model.Order]
	items       chan reconcile.Event[model.OrderedProduct]
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		orders: make(chan reconcile.Event[model.Order], 8),
		items:  make(chan reconcile.Event[model.OrderedProduct], 8),
	}
}

func (f *fakeFeed) ArticleEvents(context.Context, string) (<-chan reconcile.Event[model.Article], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan reconcile.Event[model.Article], 8)
	f.articles = append(f.articles, ch)
	f.articleSubs++
	return ch, nil
}

func (f *fakeFeed) OrderEvents(context.Context, string) (<-chan reconcile.Event[model.Order], error) {
	return f.orders, nil
}

func (f *fakeFeed) BasketItemEvents(context.Context, string) (<-chan reconcile.Event[model.OrderedProduct], error) {
	return f.items, nil
}

func (f *fakeFeed) currentArticles() chan reconcile.Event[model.Article] {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		if n := len(f.articles); n > 0 {
			ch := f.articles[n-1]
			f.mu.Unlock()
			return ch
		}
		f.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	panic("no article subscription within deadline")
}

func (f *fakeFeed) subscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.articleSubs
}

type recordingCatalog struct {
	mu      sync.Mutex
	seed    []model.Article
	saved   []model.Article
	deleted []string
}

func (r *recordingCatalog) Save(_ context.Context, _ string, article model.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, article)
	return nil
}

func (r *recordingCatalog) Delete(_ context.Context, _ string, articleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, articleID)
	return nil
}

func (r *recordingCatalog) ListBySeller(context.Context, string) ([]model.Article, error) {
	return r.seed, nil
}

func (r *recordingCatalog) savedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func (r *recordingCatalog) deletedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deleted)
}

type recordingOrders struct {
	mu        sync.Mutex
	seed      []model.Order
	buyerSeed []model.Order
	saved     []model.Order
}

func (r *recordingOrders) Save(_ context.Context, order model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, order)
	return nil
}

func (r *recordingOrders) GetByID(context.Context, string) (*model.Order, error) {
	return nil, domainErrors.ErrNotFound
}

func (r *recordingOrders) ListBySeller(context.Context, string) ([]model.Order, error) {
	return r.seed, nil
}

func (r *recordingOrders) ListByBuyer(context.Context, string) ([]model.Order, error) {
	return r.buyerSeed, nil
}

func (r *recordingOrders) SetHidden(context.Context, string, model.OrderRole, bool) error {
	return nil
}

func (r *recordingOrders) savedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

type emptyBaskets struct{}

func (emptyBaskets) Save(context.Context, model.DraftBasket) error { return nil }
func (emptyBaskets) GetByBuyer(context.Context, string) (*model.DraftBasket, error) {
	return nil, domainErrors.ErrNotFound
}
func (emptyBaskets) Delete(context.Context, string) error { return nil }

type pumpFixture struct {
	pump        *FeedPump
	feed        *fakeFeed
	catalog     *recordingCatalog
	orderRepo   *recordingOrders
	articles    *reconcile.Store[model.Article]
	orders      *reconcile.Store[model.Order]
	basketItems *reconcile.Store[model.OrderedProduct]
}

func newPumpFixture() *pumpFixture {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	feed := newFakeFeed()
	catalog := &recordingCatalog{}
	orderRepo := &recordingOrders{}

	articles := reconcile.NewStore("articles", func(a model.Article) string { return a.ID }, logger)
	orders := reconcile.NewStore("orders", func(o model.Order) string { return o.ID }, logger)
	basketItems := reconcile.NewStore("basket-items", func(p model.OrderedProduct) string { return p.ID }, logger)

	pump := NewFeedPump(feed, articles, orders, basketItems, catalog, orderRepo, emptyBaskets{},
		"seller-1", "buyer-1", 10*time.Millisecond, logger)

	return &pumpFixture{
		pump:        pump,
		feed:        feed,
		catalog:     catalog,
		orderRepo:   orderRepo,
		articles:    articles,
		orders:      orders,
		basketItems: basketItems,
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met: %s", msg)
}

func TestFeedPumpSeedsStoresFromRepositories(t *testing.T) {
	f := newPumpFixture()
	f.catalog.seed = []model.Article{{ID: "art-1", ProductName: "Carrots"}}
	f.orderRepo.seed = []model.Order{{ID: "order-1", Status: model.OrderStatusPlaced}}

	f.pump.Start(context.Background())
	defer f.pump.Stop()

	if got := f.articles.Snapshot(); len(got) != 1 || got[0].ID != "art-1" {
		t.Fatalf("unexpected article seed %v", got)
	}
	if got := f.orders.Snapshot(); len(got) != 1 || got[0].ID != "order-1" {
		t.Fatalf("unexpected order seed %v", got)
	}
	if got := f.basketItems.Snapshot(); len(got) != 0 {
		t.Fatalf("expected empty basket seed, got %v", got)
	}
}

func TestFeedPumpSeedMergesBuyerAndSellerOrders(t *testing.T) {
	f := newPumpFixture()
	f.orderRepo.seed = []model.Order{{ID: "order-1"}, {ID: "order-2"}}
	f.orderRepo.buyerSeed = []model.Order{{ID: "order-2"}, {ID: "order-3"}}

	f.pump.Start(context.Background())
	defer f.pump.Stop()

	snapshot := f.orders.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("expected the shared order deduplicated, got %v", snapshot)
	}
}

func TestFeedPumpFoldsAndPersistsArticles(t *testing.T) {
	f := newPumpFixture()
	f.pump.Start(context.Background())
	defer f.pump.Stop()

	carrots := model.Article{ID: "art-1", ProductName: "Carrots", Price: decimal.RequireFromString("2.50")}
	f.feed.currentArticles() <- reconcile.Event[model.Article]{Type: reconcile.EventAdded, ID: carrots.ID, Value: carrots}

	waitFor(t, func() bool { return len(f.articles.Snapshot()) == 1 }, "article folded")
	waitFor(t, func() bool { return f.catalog.savedCount() == 1 }, "article persisted")

	f.feed.currentArticles() <- reconcile.Event[model.Article]{Type: reconcile.EventRemoved, ID: carrots.ID}

	waitFor(t, func() bool { return len(f.articles.Snapshot()) == 0 }, "article removed")
	waitFor(t, func() bool { return f.catalog.deletedCount() == 1 }, "article delete persisted")
}

func TestFeedPumpPersistsOrders(t *testing.T) {
	f := newPumpFixture()
	f.pump.Start(context.Background())
	defer f.pump.Stop()

	order := model.Order{ID: "order-1", SellerID: "seller-1", Status: model.OrderStatusPlaced}
	f.feed.orders <- reconcile.Event[model.Order]{Type: reconcile.EventAdded, ID: order.ID, Value: order}

	waitFor(t, func() bool { return len(f.orders.Snapshot()) == 1 }, "order folded")
	waitFor(t, func() bool { return f.orderRepo.savedCount() == 1 }, "order persisted")
}

func TestFeedPumpBasketItemsStayInMemory(t *testing.T) {
	f := newPumpFixture()
	f.pump.Start(context.Background())
	defer f.pump.Stop()

	item := model.OrderedProduct{ID: "art-1", ProductName: "Carrots"}
	f.feed.items <- reconcile.Event[model.OrderedProduct]{Type: reconcile.EventAdded, ID: item.ID, Value: item}

	waitFor(t, func() bool { return len(f.basketItems.Snapshot()) == 1 }, "basket item folded")
	if f.catalog.savedCount() != 0 || f.orderRepo.savedCount() != 0 {
		t.Fatal("basket items must not touch catalog or order persistence")
	}
}

func TestFeedPumpResubscribesAfterStreamEnd(t *testing.T) {
	f := newPumpFixture()
	f.pump.Start(context.Background())
	defer f.pump.Stop()

	close(f.feed.currentArticles())

	waitFor(t, func() bool { return f.feed.subscriptions() >= 2 }, "resubscribed after stream end")

	carrots := model.Article{ID: "art-1", ProductName: "Carrots"}
	f.feed.currentArticles() <- reconcile.Event[model.Article]{Type: reconcile.EventAdded, ID: carrots.ID, Value: carrots}
	waitFor(t, func() bool { return len(f.articles.Snapshot()) == 1 }, "events flow on new subscription")
}

func TestFeedPumpStopTerminates(t *testing.T) {
	f := newPumpFixture()
	f.pump.Start(context.Background())

	done := make(chan struct{})
	go func() {
		f.pump.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
