package repository

import (
	"context"

	"github.com/leiter/marketday/internal/domain/model"
)

// CatalogRepository persists catalog records per {seller, article}. Write
// operations have fire-and-confirm semantics; no partial-write states leak out.
type CatalogRepository interface {
	Save(ctx context.Context, sellerID string, article model.Article) error
	Delete(ctx context.Context, sellerID, articleID string) error
	ListBySeller(ctx context.Context, sellerID string) ([]model.Article, error)
}
