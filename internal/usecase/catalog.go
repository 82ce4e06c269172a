package usecase

import (
	"context"
	"strings"

	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/reconcile"
)

// CatalogUseCase reads the reconciled catalog. The store is the single source
// of truth for the local article list; this use case only filters snapshots.
type CatalogUseCase struct {
	articles *reconcile.Store[model.Article]
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(articles *reconcile.Store[model.Article]) *CatalogUseCase {
	return &CatalogUseCase{articles: articles}
}

// ListArticles returns the current catalog, optionally narrowed by category
// and a case-insensitive substring match on name and search terms.
func (u *CatalogUseCase) ListArticles(category, query string) []model.Article {
	snapshot := u.articles.Snapshot()
	if category == "" && query == "" {
		return snapshot
	}

	query = strings.ToLower(query)
	out := make([]model.Article, 0, len(snapshot))
	for _, article := range snapshot {
		if category != "" && article.Category != category {
			continue
		}
		if query != "" && !matchesQuery(article, query) {
			continue
		}
		out = append(out, article)
	}
	return out
}

// ObserveArticles streams reconciled catalog snapshots until ctx is cancelled.
func (u *CatalogUseCase) ObserveArticles(ctx context.Context) <-chan []model.Article {
	return u.articles.Observe(ctx)
}

func matchesQuery(article model.Article, query string) bool {
	return strings.Contains(strings.ToLower(article.ProductName), query) ||
		strings.Contains(strings.ToLower(article.SearchTerms), query)
}
