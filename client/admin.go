package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
)

// ProductForm carries the fields of the admin product create/update
// form. Image may be nil on update to keep the existing one.
type ProductForm struct {
	CategoryID  int64
	Name        string
	Price       float64
	Description string
	ImageName   string
	Image       []byte
}

func (f *ProductForm) validate(requireImage bool) error {
	if f.CategoryID <= 0 || f.Name == "" || f.Price <= 0 {
		return errors.New("category, name and price are required")
	}
	if requireImage && len(f.Image) == 0 {
		return errors.New("image is required")
	}
	return nil
}

// encode builds the multipart body the product endpoints expect.
func (f *ProductForm) encode() (body []byte, contentType string, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"category_id": strconv.FormatInt(f.CategoryID, 10),
		"name":        f.Name,
		"price":       strconv.FormatFloat(f.Price, 'f', 2, 64),
		"description": f.Description,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if len(f.Image) > 0 {
		name := f.ImageName
		if name == "" {
			name = "image"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Image); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func (c *Client) productForm(ctx context.Context, method, path string, form ProductForm, requireImage bool) (*Product, error) {
	if err := form.validate(requireImage); err != nil {
		return nil, err
	}
	body, contentType, err := form.encode()
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}

	var p Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct adds a product to the catalog; the image is required.
func (c *Client) CreateProduct(ctx context.Context, form ProductForm) (*Product, error) {
	return c.productForm(ctx, http.MethodPost, "/api/products", form, true)
}

// UpdateProduct rewrites a product; a nil Image keeps the current one.
func (c *Client) UpdateProduct(ctx context.Context, id int64, form ProductForm) (*Product, error) {
	return c.productForm(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", id), form, false)
}

// DeleteProduct removes a product; a missing id yields ErrNotFound.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	resp, err := c.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// Orders fetches every order for the admin panel.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
