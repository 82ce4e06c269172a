package model

import "github.com/shopspring/decimal"

// Unit describes how an article is measured and sold.
type Unit string

const (
	UnitPiece    Unit = "PIECE"
	UnitBunch    Unit = "BUNCH"
	UnitLiter    Unit = "LITER"
	UnitKilogram Unit = "KILOGRAM"
	UnitGram     Unit = "GRAM"
)

// WeightBased reports whether quantities of this unit are weights rather than counts.
func (u Unit) WeightBased() bool {
	return u == UnitKilogram || u == UnitGram
}

// Article is one catalog entry of a seller. Articles are created, updated and
// removed only through reconciliation events; consumers never mutate them in place.
type Article struct {
	ID             string
	ProductID      string
	ProductName    string
	Available      bool
	Unit           Unit
	Price          decimal.Decimal
	WeightPerPiece decimal.Decimal
	ImageURL       string
	Category       string
	SearchTerms    string
	DetailText     string
}
