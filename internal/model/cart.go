package model

// CartItem is a checkout line item as submitted by the storefront
// client. Price is the unit price the client saw; the server
// recomputes the total from these rather than trusting a client sum.
type CartItem struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}
