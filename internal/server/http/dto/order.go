package dto

// BuyerResponse is the buyer snapshot frozen into an order at checkout.
type BuyerResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderResponse is one order with its status derived at read time.
type OrderResponse struct {
	ID          string             `json:"id"`
	Buyer       BuyerResponse      `json:"buyer"`
	CreatedDate int64              `json:"created_date"` // epoch millis
	SellerID    string             `json:"seller_id"`
	MarketID    string             `json:"market_id,omitempty"`
	PickUpDate  int64              `json:"pick_up_date"` // epoch millis
	Message     string             `json:"message,omitempty"`
	Articles    []LineItemResponse `json:"articles"`
	Status      string             `json:"status"`
	Total       string             `json:"total"`
}

// WindowResponse reports where an order's pickup cycle stands relative to the
// edit deadline.
type WindowResponse struct {
	Status          string `json:"status"`
	RemainingMillis int64  `json:"remaining_millis"`
}

// ErrorResponse carries a machine-readable error code alongside the message.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
