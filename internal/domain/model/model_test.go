package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderStatusValues(t *testing.T) {
	cases := []struct {
		name  string
		got   OrderStatus
		value string
	}{
		{"draft", OrderStatusDraft, "DRAFT"},
		{"placed", OrderStatusPlaced, "PLACED"},
		{"locked", OrderStatusLocked, "LOCKED"},
		{"completed", OrderStatusCompleted, "COMPLETED"},
		{"cancelled", OrderStatusCancelled, "CANCELLED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}

func TestUnitWeightBased(t *testing.T) {
	if !UnitKilogram.WeightBased() || !UnitGram.WeightBased() {
		t.Fatal("expected kilogram and gram to be weight based")
	}
	if UnitPiece.WeightBased() || UnitBunch.WeightBased() || UnitLiter.WeightBased() {
		t.Fatal("expected count based units not to be weight based")
	}
}

func TestDerivePiecesCountWeightBased(t *testing.T) {
	// 1.5 kg of an article weighing 0.5 kg per piece makes three pieces.
	got := DerivePiecesCount(UnitKilogram, decimal.RequireFromString("1.5"), decimal.RequireFromString("0.5"))
	if got != 3 {
		t.Fatalf("expected 3 pieces, got %d", got)
	}
}

func TestDerivePiecesCountCountBased(t *testing.T) {
	got := DerivePiecesCount(UnitPiece, decimal.RequireFromString("2.4"), decimal.Zero)
	if got != 2 {
		t.Fatalf("expected 2 pieces, got %d", got)
	}
}

func TestDerivePiecesCountZeroWeightPerPiece(t *testing.T) {
	got := DerivePiecesCount(UnitKilogram, decimal.RequireFromString("2.0"), decimal.Zero)
	if got != 2 {
		t.Fatalf("expected fallback to rounded amount, got %d", got)
	}
}

func TestDraftBasketTotal(t *testing.T) {
	basket := DraftBasket{Items: []OrderedProduct{
		{Price: decimal.RequireFromString("2.50"), AmountCount: decimal.RequireFromString("2.0")},
		{Price: decimal.RequireFromString("1.00"), AmountCount: decimal.RequireFromString("3.0")},
	}}

	if want := decimal.RequireFromString("8.00"); !basket.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, basket.Total())
	}
}

func TestOrderHiddenFor(t *testing.T) {
	order := Order{HiddenBySeller: true}
	if !order.HiddenFor(RoleSeller) {
		t.Fatal("expected order hidden for seller")
	}
	if order.HiddenFor(RoleBuyer) {
		t.Fatal("expected order visible for buyer")
	}
}
