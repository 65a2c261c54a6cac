package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type checkoutRequest struct {
	CartItems []LineItem `json:"cartItems"`
	Invoice   string     `json:"invoice"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
}

// Checkout hands the cart off to the payment provider and returns the
// approval URL the buyer must be redirected to, along with the
// generated invoice reference. The cart is left untouched; callers
// clear it once the payment is confirmed.
func (c *Client) Checkout(ctx context.Context, cart *Cart, email string) (approvalURL, invoice string, err error) {
	if cart.Count() == 0 {
		return "", "", ErrEmptyCart
	}

	username := "guest"
	if c.authenticated {
		username = c.email
	}
	req := checkoutRequest{
		CartItems: cart.Items(),
		Invoice:   "INV-" + uuid.NewString(),
		Email:     email,
		Username:  username,
	}

	var out struct {
		ApprovalURL string `json:"approvalUrl"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/checkout/paypal", req, &out); err != nil {
		return "", "", err
	}
	return out.ApprovalURL, req.Invoice, nil
}
