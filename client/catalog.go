package client

import (
	"context"
	"fmt"
)

// Categories fetches the category id/name pairs used to build the
// navigation bar.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.getJSON(ctx, "/api/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CategoryID resolves a category name to its id.
func (c *Client) CategoryID(ctx context.Context, name string) (int64, error) {
	var out struct {
		CategoryID int64 `json:"catid"`
	}
	if err := c.getJSON(ctx, joinQuery("/api/categories/id", "name", name), &out); err != nil {
		return 0, err
	}
	return out.CategoryID, nil
}

// Products fetches the whole catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.getJSON(ctx, "/api/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductsByCategory fetches the catalog filtered server-side.
func (c *Client) ProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	var out []Product
	path := joinQuery("/api/products/category", "category_id", fmt.Sprintf("%d", categoryID))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches a single product; a missing id yields ErrNotFound.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	var out Product
	if err := c.getJSON(ctx, fmt.Sprintf("/api/products/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrdersByEmail fetches a customer's recent order history.
func (c *Client) OrdersByEmail(ctx context.Context, email string) ([]Order, error) {
	var out []Order
	if err := c.getJSON(ctx, joinQuery("/api/orders/by-email", "email", email), &out); err != nil {
		return nil, err
	}
	return out, nil
}
