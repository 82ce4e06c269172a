package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leiter/marketday/internal/domain/model"
	"github.com/leiter/marketday/internal/reconcile"
)

func TestTopicNaming(t *testing.T) {
	if got := Topic("marketday", CollectionArticles, "seller-1"); got != "marketday.articles.seller-1" {
		t.Fatalf("unexpected topic %q", got)
	}
}

func TestDecodeArticleAdded(t *testing.T) {
	raw := []byte(`{
		"event_id": "ev-1",
		"collection": "articles",
		"type": "ADDED",
		"entity_id": "art-1",
		"occurred_at": "2024-06-17T10:00:00Z",
		"payload": {
			"id": "art-1",
			"product_id": "prod-1",
			"product_name": "Carrots",
			"available": true,
			"unit": "KILOGRAM",
			"price": "2.50",
			"weight_per_piece": "0.2",
			"category": "vegetables",
			"search_terms": "roots orange"
		}
	}`)

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}

	ev, err := DecodeArticle(env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != reconcile.EventAdded || ev.ID != "art-1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Value.ProductName != "Carrots" || ev.Value.Unit != model.UnitKilogram {
		t.Fatalf("unexpected article %+v", ev.Value)
	}
	if !ev.Value.Price.Equal(decimal.RequireFromString("2.50")) {
		t.Fatalf("unexpected price %s", ev.Value.Price)
	}
}

func TestDecodeRemovedCarriesNoPayload(t *testing.T) {
	env := Envelope{Type: "REMOVED", EntityID: "art-1"}

	ev, err := DecodeArticle(env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != reconcile.EventRemoved || ev.ID != "art-1" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestDecodeOrderDatesAreEpochMillis(t *testing.T) {
	pickup := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(orderPayload{
		ID:         "order-1",
		BuyerID:    "buyer-1",
		BuyerName:  "Jo",
		SellerID:   "seller-1",
		PickUpDate: pickup.UnixMilli(),
		Status:     "PLACED",
		Articles: []linePayload{{
			ID:          "art-1",
			ProductName: "Carrots",
			Unit:        "KILOGRAM",
			Price:       decimal.RequireFromString("2.50"),
			AmountCount: decimal.RequireFromString("1.5"),
		}},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	ev, err := DecodeOrder(Envelope{Type: "CHANGED", EntityID: "order-1", Payload: payload})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ev.Value.PickUpDate.Equal(pickup) {
		t.Fatalf("expected pickup %s, got %s", pickup, ev.Value.PickUpDate)
	}
	if ev.Value.Status != model.OrderStatusPlaced || len(ev.Value.Articles) != 1 {
		t.Fatalf("unexpected order %+v", ev.Value)
	}
}

func TestDecodeBasketItem(t *testing.T) {
	payload, err := json.Marshal(linePayload{
		ID:          "art-1",
		ProductID:   "prod-1",
		ProductName: "Carrots",
		Unit:        "KILOGRAM",
		Price:       decimal.RequireFromString("2.50"),
		Amount:      "1.5 kg",
		AmountCount: decimal.RequireFromString("1.5"),
		PiecesCount: 8,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	ev, err := DecodeBasketItem(Envelope{Type: "ADDED", EntityID: "art-1", Payload: payload})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Value.PiecesCount != 8 || ev.Value.Amount != "1.5 kg" {
		t.Fatalf("unexpected line %+v", ev.Value)
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	if _, err := DecodeArticle(Envelope{Type: "UPSERTED", EntityID: "art-1"}); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	env := Envelope{Type: "ADDED", EntityID: "art-1", Payload: json.RawMessage(`{"price": []}`)}
	if _, err := DecodeArticle(env); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
