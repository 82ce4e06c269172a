package dto

// LineItemRequest sets the quantity of one basket line. AmountCount is a
// decimal string; exactly "0" removes the line.
type LineItemRequest struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Unit        string `json:"unit"`
	Price       string `json:"price"`
	Amount      string `json:"amount"`
	AmountCount string `json:"amount_count"`
}

// LineItemResponse is one priced line of a basket or an order.
type LineItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Unit        string `json:"unit"`
	Price       string `json:"price"`
	Amount      string `json:"amount,omitempty"`
	AmountCount string `json:"amount_count"`
	PiecesCount int    `json:"pieces_count"`
	Subtotal    string `json:"subtotal"`
}

// BasketResponse is the buyer's current draft with its derived total.
type BasketResponse struct {
	BuyerID            string             `json:"buyer_id"`
	Items              []LineItemResponse `json:"items"`
	SelectedPickupDate *int64             `json:"selected_pickup_date,omitempty"` // epoch millis
	AssociatedOrderID  string             `json:"associated_order_id,omitempty"`
	Total              string             `json:"total"`
}

// PickupDateRequest selects the pickup day for the draft.
type PickupDateRequest struct {
	PickupDate int64 `json:"pickup_date"` // epoch millis
}

// CheckoutRequest turns the draft into a placed order.
type CheckoutRequest struct {
	BuyerName    string `json:"buyer_name"`
	BuyerPhone   string `json:"buyer_phone,omitempty"`
	BuyerAddress string `json:"buyer_address,omitempty"`
	Message      string `json:"message,omitempty"`
}
