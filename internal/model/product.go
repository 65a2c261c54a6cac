package model

import "time"

// Product mirrors a row in the products table. Image URLs are
// server-relative paths under /images.
type Product struct {
	ProductID    int64      `json:"id"`
	CategoryID   int64      `json:"catid"`
	Name         string     `json:"name"`
	Price        float64    `json:"price"`
	Description  string     `json:"description"`
	ImageURL     string     `json:"image_url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
