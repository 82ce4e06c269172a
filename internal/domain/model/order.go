package model

import "time"

// OrderStatus describes the order lifecycle. LOCKED and COMPLETED are derived
// from wall-clock time on read and never stored.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusLocked    OrderStatus = "LOCKED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// BuyerProfile is a snapshot of the buyer's contact data frozen at checkout.
type BuyerProfile struct {
	Name    string
	Phone   string
	Address string
}

// Order is one pickup order of a buyer with a seller. An order is never
// deleted, only cancelled or hidden per side.
type Order struct {
	ID             string
	BuyerID        string
	Buyer          BuyerProfile
	CreatedDate    time.Time
	SellerID       string
	MarketID       string
	PickUpDate     time.Time
	Message        string
	Articles       []OrderedProduct
	Status         OrderStatus
	HiddenBySeller bool
	HiddenByBuyer  bool
}

// HiddenFor reports whether the given party has hidden this order from its lists.
func (o Order) HiddenFor(role OrderRole) bool {
	if role == RoleSeller {
		return o.HiddenBySeller
	}
	return o.HiddenByBuyer
}

// OrderRole distinguishes the two parties of an order for role-scoped
// operations such as hiding.
type OrderRole string

const (
	RoleBuyer  OrderRole = "BUYER"
	RoleSeller OrderRole = "SELLER"
)
