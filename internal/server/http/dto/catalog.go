package dto

// ArticleResponse is one catalog entry as exposed over HTTP. Money travels as
// decimal strings, never floats.
type ArticleResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Available      bool   `json:"available"`
	Unit           string `json:"unit"`
	Price          string `json:"price"`
	WeightPerPiece string `json:"weight_per_piece,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	Category       string `json:"category,omitempty"`
	DetailText     string `json:"detail_text,omitempty"`
}
