package model

import "time"

// Order statuses move pending -> approved once the payment provider
// confirms capture through the webhook.
const (
	OrderStatusPending  = "pending"
	OrderStatusApproved = "approved"
)

// Order represents an entry in the orders table. UserID is nil for
// guest checkouts; Username then holds "guest".
type Order struct {
	OrderID       int64          `json:"id"`
	Currency      string         `json:"currency"`
	MerchantEmail string         `json:"merchant_email"`
	Salt          string         `json:"salt"`
	Products      []OrderProduct `json:"products"`
	TotalPrice    float64        `json:"total_price"`
	UserID        *int64         `json:"user_id"`
	Username      string         `json:"username"`
	Digest        string         `json:"digest"`
	Invoice       string         `json:"invoice"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// OrderProduct is a line item with the price captured at purchase time.
type OrderProduct struct {
	OrderProductID int64   `json:"id"`
	OrderID        int64   `json:"order_id"`
	ProductID      int64   `json:"product_id"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
}

// VerifiedOrder is the immutable copy written after the payment
// webhook passes digest verification.
type VerifiedOrder struct {
	VerifiedOrderID int64          `json:"id"`
	OrderID         int64          `json:"order_id"`
	Invoice         string         `json:"invoice"`
	UserID          *int64         `json:"user_id"`
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	TotalPrice      float64        `json:"total_price"`
	Currency        string         `json:"currency"`
	Status          string         `json:"status"`
	Products        []OrderProduct `json:"products"`
	CreatedAt       time.Time      `json:"created_at"`
}
