package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/reconcile"
)

func articleStore(articles ...model.Article) *reconcile.Store[model.Article] {
	store := reconcile.NewStore[model.Article]("articles", func(a model.Article) string { return a.ID }, discardLogger)
	store.Replace(articles)
	return store
}

func TestListArticlesUnfiltered(t *testing.T) {
	uc := NewCatalogUseCase(articleStore(
		model.Article{ID: "a", ProductName: "Carrots"},
		model.Article{ID: "b", ProductName: "Leeks"},
	))

	if got := uc.ListArticles("", ""); len(got) != 2 {
		t.Fatalf("expected full catalog, got %v", got)
	}
}

func TestListArticlesByCategory(t *testing.T) {
	uc := NewCatalogUseCase(articleStore(
		model.Article{ID: "a", ProductName: "Carrots", Category: "vegetables"},
		model.Article{ID: "b", ProductName: "Apples", Category: "fruit"},
	))

	got := uc.ListArticles("fruit", "")
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only fruit, got %v", got)
	}
}

func TestListArticlesByQuery(t *testing.T) {
	uc := NewCatalogUseCase(articleStore(
		model.Article{ID: "a", ProductName: "Carrots", SearchTerms: "roots orange"},
		model.Article{ID: "b", ProductName: "Leeks"},
	))

	if got := uc.ListArticles("", "ORANGE"); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected search terms matched case-insensitively, got %v", got)
	}
	if got := uc.ListArticles("", "leek"); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected name matched, got %v", got)
	}
}

func TestObserveArticlesStreamsSnapshots(t *testing.T) {
	store := articleStore()
	uc := NewCatalogUseCase(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := uc.ObserveArticles(ctx)
	<-ch // initial snapshot

	store.Apply(reconcile.Event[model.Article]{Type: reconcile.EventAdded, ID: "a", Value: model.Article{ID: "a", ProductName: "Carrots"}})

	select {
	case snapshot := <-ch:
		if len(snapshot) != 1 || snapshot[0].ID != "a" {
			t.Fatalf("unexpected snapshot %v", snapshot)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}
