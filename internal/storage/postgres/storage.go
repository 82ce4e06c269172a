package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/leiter/marketday/internal/domain/errors"
	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/domain/repository"
)

// dbPool is the pool surface the storage uses; pgxmock satisfies it in tests.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   dbPool
	logger *slog.Logger
}

type catalogRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

type basketRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Catalog() repository.CatalogRepository {
	return &catalogRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Baskets() repository.BasketRepository {
	return &basketRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS catalog_articles (
            seller_id TEXT NOT NULL,
            article_id TEXT NOT NULL,
            product_id TEXT NOT NULL,
            product_name TEXT NOT NULL,
            available BOOLEAN NOT NULL DEFAULT TRUE,
            unit TEXT NOT NULL,
            price NUMERIC(12,2) NOT NULL,
            weight_per_piece NUMERIC(12,3) NOT NULL DEFAULT 0,
            image_url TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            search_terms TEXT NOT NULL DEFAULT '',
            detail_text TEXT NOT NULL DEFAULT '',
            PRIMARY KEY (seller_id, article_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            buyer_id TEXT NOT NULL,
            buyer_name TEXT NOT NULL DEFAULT '',
            buyer_phone TEXT NOT NULL DEFAULT '',
            buyer_address TEXT NOT NULL DEFAULT '',
            created_date TIMESTAMPTZ NOT NULL,
            seller_id TEXT NOT NULL,
            market_id TEXT NOT NULL DEFAULT '',
            pick_up_date TIMESTAMPTZ NOT NULL,
            message TEXT NOT NULL DEFAULT '',
            articles JSONB NOT NULL DEFAULT '[]',
            status TEXT NOT NULL,
            hidden_by_seller BOOLEAN NOT NULL DEFAULT FALSE,
            hidden_by_buyer BOOLEAN NOT NULL DEFAULT FALSE
        )`,
		`CREATE TABLE IF NOT EXISTS draft_baskets (
            buyer_id TEXT PRIMARY KEY,
            items JSONB NOT NULL DEFAULT '[]',
            selected_pickup_date TIMESTAMPTZ,
            associated_order_id TEXT NOT NULL DEFAULT '',
            last_modified TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id, pick_up_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id, pick_up_date DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// orderLine is the JSONB representation of one order or basket line.
type orderLine struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Amount      string          `json:"amount"`
	AmountCount decimal.Decimal `json:"amount_count"`
	PiecesCount int             `json:"pieces_count"`
}

func linesToJSON(items []model.OrderedProduct) ([]byte, error) {
	lines := make([]orderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, orderLine{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Unit:        string(item.Unit),
			Price:       item.Price,
			Amount:      item.Amount,
			AmountCount: item.AmountCount,
			PiecesCount: item.PiecesCount,
		})
	}
	return json.Marshal(lines)
}

func linesFromJSON(raw []byte) ([]model.OrderedProduct, error) {
	var lines []orderLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode order lines: %w", err)
	}
	items := make([]model.OrderedProduct, 0, len(lines))
	for _, line := range lines {
		items = append(items, model.OrderedProduct{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Unit:        model.Unit(line.Unit),
			Price:       line.Price,
			Amount:      line.Amount,
			AmountCount: line.AmountCount,
			PiecesCount: line.PiecesCount,
		})
	}
	return items, nil
}

// --- CatalogRepository implementation ---

func (r *catalogRepository) Save(ctx context.Context, sellerID string, article model.Article) error {
	const query = `INSERT INTO catalog_articles
            (seller_id, article_id, product_id, product_name, available, unit, price,
             weight_per_piece, image_url, category, search_terms, detail_text)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        ON CONFLICT (seller_id, article_id) DO UPDATE SET
            product_id=EXCLUDED.product_id,
            product_name=EXCLUDED.product_name,
            available=EXCLUDED.available,
            unit=EXCLUDED.unit,
            price=EXCLUDED.price,
            weight_per_piece=EXCLUDED.weight_per_piece,
            image_url=EXCLUDED.image_url,
            category=EXCLUDED.category,
            search_terms=EXCLUDED.search_terms,
            detail_text=EXCLUDED.detail_text`
	_, err := r.storage.pool.Exec(ctx, query,
		sellerID, article.ID, article.ProductID, article.ProductName, article.Available,
		string(article.Unit), article.Price, article.WeightPerPiece, article.ImageURL,
		article.Category, article.SearchTerms, article.DetailText)
	return err
}

func (r *catalogRepository) Delete(ctx context.Context, sellerID, articleID string) error {
	const query = `DELETE FROM catalog_articles WHERE seller_id=$1 AND article_id=$2`
	_, err := r.storage.pool.Exec(ctx, query, sellerID, articleID)
	return err
}

func (r *catalogRepository) ListBySeller(ctx context.Context, sellerID string) ([]model.Article, error) {
	const query = `SELECT article_id, product_id, product_name, available, unit, price,
                          weight_per_piece, image_url, category, search_terms, detail_text
                   FROM catalog_articles WHERE seller_id=$1 ORDER BY product_name`
	rows, err := r.storage.pool.Query(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Article
	for rows.Next() {
		var (
			a    model.Article
			unit string
		)
		if err := rows.Scan(&a.ID, &a.ProductID, &a.ProductName, &a.Available, &unit,
			&a.Price, &a.WeightPerPiece, &a.ImageURL, &a.Category, &a.SearchTerms, &a.DetailText); err != nil {
			return nil, err
		}
		a.Unit = model.Unit(unit)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Save(ctx context.Context, order model.Order) error {
	articles, err := linesToJSON(order.Articles)
	if err != nil {
		return err
	}

	const query = `INSERT INTO orders
            (id, buyer_id, buyer_name, buyer_phone, buyer_address, created_date,
             seller_id, market_id, pick_up_date, message, articles, status,
             hidden_by_seller, hidden_by_buyer)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        ON CONFLICT (id) DO UPDATE SET
            message=EXCLUDED.message,
            articles=EXCLUDED.articles,
            status=EXCLUDED.status,
            hidden_by_seller=EXCLUDED.hidden_by_seller,
            hidden_by_buyer=EXCLUDED.hidden_by_buyer`
	_, err = r.storage.pool.Exec(ctx, query,
		order.ID, order.BuyerID, order.Buyer.Name, order.Buyer.Phone, order.Buyer.Address,
		order.CreatedDate, order.SellerID, order.MarketID, order.PickUpDate, order.Message,
		articles, string(order.Status), order.HiddenBySeller, order.HiddenByBuyer)
	return err
}

const orderColumns = `id, buyer_id, buyer_name, buyer_phone, buyer_address, created_date,
                      seller_id, market_id, pick_up_date, message, articles, status,
                      hidden_by_seller, hidden_by_buyer`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o        model.Order
		status   string
		articles []byte
	)
	err := row.Scan(&o.ID, &o.BuyerID, &o.Buyer.Name, &o.Buyer.Phone, &o.Buyer.Address,
		&o.CreatedDate, &o.SellerID, &o.MarketID, &o.PickUpDate, &o.Message,
		&articles, &status, &o.HiddenBySeller, &o.HiddenByBuyer)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	if o.Articles, err = linesFromJSON(articles); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) listBy(ctx context.Context, column, value string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE ` + column + `=$1 ORDER BY pick_up_date DESC`
	rows, err := r.storage.pool.Query(ctx, query, value)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerID string) ([]model.Order, error) {
	return r.listBy(ctx, "seller_id", sellerID)
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	return r.listBy(ctx, "buyer_id", buyerID)
}

func (r *orderRepository) SetHidden(ctx context.Context, id string, role model.OrderRole, hidden bool) error {
	column := "hidden_by_buyer"
	if role == model.RoleSeller {
		column = "hidden_by_seller"
	}
	tag, err := r.storage.pool.Exec(ctx, `UPDATE orders SET `+column+`=$1 WHERE id=$2`, hidden, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// --- BasketRepository implementation ---

func (r *basketRepository) Save(ctx context.Context, basket model.DraftBasket) error {
	items, err := linesToJSON(basket.Items)
	if err != nil {
		return err
	}

	const query = `INSERT INTO draft_baskets
            (buyer_id, items, selected_pickup_date, associated_order_id, last_modified)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (buyer_id) DO UPDATE SET
            items=EXCLUDED.items,
            selected_pickup_date=EXCLUDED.selected_pickup_date,
            associated_order_id=EXCLUDED.associated_order_id,
            last_modified=EXCLUDED.last_modified`
	_, err = r.storage.pool.Exec(ctx, query,
		basket.BuyerID, items, basket.SelectedPickupDate, basket.AssociatedOrderID, basket.LastModified)
	return err
}

func (r *basketRepository) GetByBuyer(ctx context.Context, buyerID string) (*model.DraftBasket, error) {
	const query = `SELECT buyer_id, items, selected_pickup_date, associated_order_id, last_modified
                   FROM draft_baskets WHERE buyer_id=$1`
	var (
		b     model.DraftBasket
		items []byte
	)
	err := r.storage.pool.QueryRow(ctx, query, buyerID).Scan(
		&b.BuyerID, &items, &b.SelectedPickupDate, &b.AssociatedOrderID, &b.LastModified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if b.Items, err = linesFromJSON(items); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *basketRepository) Delete(ctx context.Context, buyerID string) error {
	_, err := r.storage.pool.Exec(ctx, `DELETE FROM draft_baskets WHERE buyer_id=$1`, buyerID)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
