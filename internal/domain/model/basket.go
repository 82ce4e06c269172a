package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderedProduct is one line of a basket or a placed order. ID matches the
// source article id when the line originates from the catalog.
type OrderedProduct struct {
	ID          string
	ProductID   string
	ProductName string
	Unit        Unit
	Price       decimal.Decimal
	Amount      string
	AmountCount decimal.Decimal
	PiecesCount int
}

// Subtotal returns price multiplied by quantity.
func (p OrderedProduct) Subtotal() decimal.Decimal {
	return p.Price.Mul(p.AmountCount)
}

// DerivePiecesCount computes the integer piece count for a quantity. For
// weight-based units the quantity is divided by the article's weight per piece;
// otherwise the quantity itself is rounded.
func DerivePiecesCount(unit Unit, amountCount, weightPerPiece decimal.Decimal) int {
	if unit.WeightBased() && weightPerPiece.IsPositive() {
		return int(amountCount.Div(weightPerPiece).Round(0).IntPart())
	}
	return int(amountCount.Round(0).IntPart())
}

// DraftBasket is the buyer's in-progress selection. It is owned by the current
// session and only becomes authoritative once an order is placed from it.
type DraftBasket struct {
	BuyerID            string
	Items              []OrderedProduct
	SelectedPickupDate *time.Time
	// AssociatedOrderID is set while the basket edits an already placed order.
	AssociatedOrderID string
	LastModified      time.Time
}

// Total sums price times quantity over all lines.
func (b DraftBasket) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
