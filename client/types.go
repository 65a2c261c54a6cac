package client

import "time"

// Product is the catalog projection served by the API. The client
// never mutates products; the admin calls send form fields instead.
type Product struct {
	ID           int64   `json:"id"`
	CategoryID   int64   `json:"catid"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"image_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
}

type Category struct {
	ID   int64  `json:"catid"`
	Name string `json:"name"`
}

type Order struct {
	ID            int64          `json:"id"`
	Currency      string         `json:"currency"`
	MerchantEmail string         `json:"merchant_email"`
	Products      []OrderProduct `json:"products"`
	TotalPrice    float64        `json:"total_price"`
	UserID        *int64         `json:"user_id"`
	Username      string         `json:"username"`
	Invoice       string         `json:"invoice"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
}

type OrderProduct struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
