package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/reconcile"
)

// Collection names used in topics and envelopes.
const (
	CollectionArticles    = "articles"
	CollectionOrders      = "orders"
	CollectionBasketItems = "basket-items"
)

// Topic builds the change feed topic of one collection scoped to its owner,
// e.g. "marketday.articles.seller-1". The owner also serves as partition key so
// all events of one collection keep their delivery order per partition.
func Topic(prefix, collection, ownerID string) string {
	return fmt.Sprintf("%s.%s.%s", prefix, collection, ownerID)
}

// Envelope is the wire frame of one change notification.
type Envelope struct {
	EventID    string          `json:"event_id"`
	Collection string          `json:"collection"`
	Type       string          `json:"type"` // ADDED | CHANGED | REMOVED | MOVED
	EntityID   string          `json:"entity_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type articlePayload struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Available      bool            `json:"available"`
	Unit           string          `json:"unit"`
	Price          decimal.Decimal `json:"price"`
	WeightPerPiece decimal.Decimal `json:"weight_per_piece"`
	ImageURL       string          `json:"image_url,omitempty"`
	Category       string          `json:"category,omitempty"`
	SearchTerms    string          `json:"search_terms,omitempty"`
	DetailText     string          `json:"detail_text,omitempty"`
}

type linePayload struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Amount      string          `json:"amount"`
	AmountCount decimal.Decimal `json:"amount_count"`
	PiecesCount int             `json:"pieces_count"`
}

type orderPayload struct {
	ID             string        `json:"id"`
	BuyerID        string        `json:"buyer_id"`
	BuyerName      string        `json:"buyer_name"`
	BuyerPhone     string        `json:"buyer_phone,omitempty"`
	BuyerAddress   string        `json:"buyer_address,omitempty"`
	CreatedDate    int64         `json:"created_date"` // epoch millis
	SellerID       string        `json:"seller_id"`
	MarketID       string        `json:"market_id"`
	PickUpDate     int64         `json:"pick_up_date"` // epoch millis
	Message        string        `json:"message,omitempty"`
	Articles       []linePayload `json:"articles"`
	Status         string        `json:"status"`
	HiddenBySeller bool          `json:"hidden_by_seller"`
	HiddenByBuyer  bool          `json:"hidden_by_buyer"`
}

// unwrap decodes the collection-specific payload of an envelope.
func unwrap[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

func eventType(raw string) (reconcile.EventType, error) {
	switch t := reconcile.EventType(raw); t {
	case reconcile.EventAdded, reconcile.EventChanged, reconcile.EventRemoved, reconcile.EventMoved:
		return t, nil
	default:
		return "", fmt.Errorf("unknown event type %q", raw)
	}
}

// hasValue reports whether the event type carries an entity payload.
func hasValue(t reconcile.EventType) bool {
	return t == reconcile.EventAdded || t == reconcile.EventChanged
}

// DecodeArticle turns an envelope of the articles collection into a
// reconciliation event.
func DecodeArticle(env Envelope) (reconcile.Event[model.Article], error) {
	t, err := eventType(env.Type)
	if err != nil {
		return reconcile.Event[model.Article]{}, err
	}
	ev := reconcile.Event[model.Article]{Type: t, ID: env.EntityID}
	if !hasValue(t) {
		return ev, nil
	}

	p, err := unwrap[articlePayload](env.Payload)
	if err != nil {
		return reconcile.Event[model.Article]{}, err
	}
	ev.Value = model.Article{
		ID:             p.ID,
		ProductID:      p.ProductID,
		ProductName:    p.ProductName,
		Available:      p.Available,
		Unit:           model.Unit(p.Unit),
		Price:          p.Price,
		WeightPerPiece: p.WeightPerPiece,
		ImageURL:       p.ImageURL,
		Category:       p.Category,
		SearchTerms:    p.SearchTerms,
		DetailText:     p.DetailText,
	}
	return ev, nil
}

// DecodeBasketItem turns an envelope of the basket-items collection into a
// reconciliation event.
func DecodeBasketItem(env Envelope) (reconcile.Event[model.OrderedProduct], error) {
	t, err := eventType(env.Type)
	if err != nil {
		return reconcile.Event[model.OrderedProduct]{}, err
	}
	ev := reconcile.Event[model.OrderedProduct]{Type: t, ID: env.EntityID}
	if !hasValue(t) {
		return ev, nil
	}

	p, err := unwrap[linePayload](env.Payload)
	if err != nil {
		return reconcile.Event[model.OrderedProduct]{}, err
	}
	ev.Value = lineFromPayload(p)
	return ev, nil
}

// DecodeOrder turns an envelope of the orders collection into a reconciliation
// event. Dates travel as epoch milliseconds and come back as UTC instants.
func DecodeOrder(env Envelope) (reconcile.Event[model.Order], error) {
	t, err := eventType(env.Type)
	if err != nil {
		return reconcile.Event[model.Order]{}, err
	}
	ev := reconcile.Event[model.Order]{Type: t, ID: env.EntityID}
	if !hasValue(t) {
		return ev, nil
	}

	p, err := unwrap[orderPayload](env.Payload)
	if err != nil {
		return reconcile.Event[model.Order]{}, err
	}

	articles := make([]model.OrderedProduct, 0, len(p.Articles))
	for _, line := range p.Articles {
		articles = append(articles, lineFromPayload(line))
	}

	ev.Value = model.Order{
		ID:      p.ID,
		BuyerID: p.BuyerID,
		Buyer: model.BuyerProfile{
			Name:    p.BuyerName,
			Phone:   p.BuyerPhone,
			Address: p.BuyerAddress,
		},
		CreatedDate:    time.UnixMilli(p.CreatedDate).UTC(),
		SellerID:       p.SellerID,
		MarketID:       p.MarketID,
		PickUpDate:     time.UnixMilli(p.PickUpDate).UTC(),
		Message:        p.Message,
		Articles:       articles,
		Status:         model.OrderStatus(p.Status),
		HiddenBySeller: p.HiddenBySeller,
		HiddenByBuyer:  p.HiddenByBuyer,
	}
	return ev, nil
}

func lineFromPayload(p linePayload) model.OrderedProduct {
	return model.OrderedProduct{
		ID:          p.ID,
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Unit:        model.Unit(p.Unit),
		Price:       p.Price,
		Amount:      p.Amount,
		AmountCount: p.AmountCount,
		PiecesCount: p.PiecesCount,
	}
}
