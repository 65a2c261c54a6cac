package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"

	"go.uber.org/zap"
)

// Currency is the single currency the storefront charges in.
const Currency = "HKD"

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrDigestMismatch = errors.New("order digest mismatch")
)

// PaymentGateway creates a hosted-checkout order with the payment
// provider and returns the approval URL the buyer is redirected to.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, invoice, currency string, items []model.CartItem, total float64) (string, error)
}

type orderStore interface {
	Create(ctx context.Context, o *model.Order) (int64, error)
	GetByInvoice(ctx context.Context, invoice string) (*model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	ListRecentByEmail(ctx context.Context, email string, limit int) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
	CreateVerified(ctx context.Context, v *model.VerifiedOrder) (int64, error)
}

// CheckoutRequest is the body of POST /api/checkout/paypal.
type CheckoutRequest struct {
	Items    []model.CartItem `json:"cartItems"`
	Invoice  string           `json:"invoice"`
	Email    string           `json:"email"`
	UserID   *int64           `json:"user_id"`
	Username string           `json:"username"`
}

type CheckoutService struct {
	Orders  orderStore
	Gateway PaymentGateway
	Logger  *zap.Logger
}

func NewCheckoutService(or orderStore, gw PaymentGateway, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{Orders: or, Gateway: gw, Logger: logger}
}

// CalculateTotal sums price * quantity over the submitted line items.
func CalculateTotal(items []model.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// computeDigest derives the anti-tampering digest stored with the
// order and re-verified when the payment webhook arrives.
func computeDigest(currency, merchantEmail, salt string, items []model.CartItem, total float64) string {
	productParts := make([]string, 0, len(items))
	for _, it := range items {
		productParts = append(productParts, fmt.Sprintf("%d:%d:%.2f", it.ProductID, it.Quantity, it.Price))
	}
	combined := strings.Join([]string{
		currency,
		merchantEmail,
		salt,
		strings.Join(productParts, "|"),
		fmt.Sprintf("%.2f", total),
	}, "||")

	hash := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(hash[:])
}

func (req *CheckoutRequest) validate() error {
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	req.Invoice = strings.TrimSpace(req.Invoice)
	if req.Invoice == "" {
		return fmt.Errorf("%w: invoice is required", ErrValidation)
	}
	if err := validateEmail(strings.TrimSpace(req.Email)); err != nil {
		return err
	}
	for _, it := range req.Items {
		if it.ProductID <= 0 || it.Quantity < 1 || it.Price <= 0 {
			return fmt.Errorf("%w: invalid line item", ErrValidation)
		}
	}
	return nil
}

// Checkout persists a pending order and hands off to the payment
// provider, returning the buyer approval URL. The total is always
// recomputed server-side from the submitted line items.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	total := CalculateTotal(req.Items)
	salt := fmt.Sprintf("%d", time.Now().UnixNano())
	username := req.Username
	if username == "" {
		username = "guest"
	}

	order := &model.Order{
		Currency:      Currency,
		MerchantEmail: req.Email,
		Salt:          salt,
		TotalPrice:    total,
		UserID:        req.UserID,
		Username:      username,
		Digest:        computeDigest(Currency, req.Email, salt, req.Items, total),
		Invoice:       req.Invoice,
	}
	for _, it := range req.Items {
		order.Products = append(order.Products, model.OrderProduct{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	orderID, err := s.Orders.Create(ctx, order)
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}

	approvalURL, err := s.Gateway.CreateOrder(ctx, req.Invoice, Currency, req.Items, total)
	if err != nil {
		return "", fmt.Errorf("payment provider: %w", err)
	}

	s.Logger.Info("checkout handed off to payment provider",
		zap.Int64("order_id", orderID),
		zap.String("invoice", req.Invoice),
		zap.Float64("total", total),
	)
	return approvalURL, nil
}

// ApprovePayment finalizes an order after the provider reports the
// payment approved. The digest is re-derived from the stored rows; a
// mismatch means the order was tampered with and nothing is updated.
// Calling it again for an approved order is a no-op.
func (s *CheckoutService) ApprovePayment(ctx context.Context, invoice string) error {
	order, err := s.Orders.GetByInvoice(ctx, invoice)
	if err != nil {
		return err
	}
	if order.Status == model.OrderStatusApproved {
		s.Logger.Info("order already approved, skipping", zap.Int64("order_id", order.OrderID))
		return nil
	}

	items := make([]model.CartItem, 0, len(order.Products))
	for _, p := range order.Products {
		items = append(items, model.CartItem{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Price:     p.Price,
		})
	}

	if computeDigest(order.Currency, order.MerchantEmail, order.Salt, items, order.TotalPrice) != order.Digest {
		s.Logger.Warn("digest mismatch, possible tampering",
			zap.Int64("order_id", order.OrderID),
			zap.String("invoice", invoice),
		)
		return ErrDigestMismatch
	}

	if err := s.Orders.UpdateStatus(ctx, order.OrderID, model.OrderStatusApproved); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	verified := &model.VerifiedOrder{
		OrderID:    order.OrderID,
		Invoice:    order.Invoice,
		UserID:     order.UserID,
		Username:   order.Username,
		Email:      order.MerchantEmail,
		TotalPrice: order.TotalPrice,
		Currency:   order.Currency,
		Status:     model.OrderStatusApproved,
		Products:   order.Products,
	}
	if _, err := s.Orders.CreateVerified(ctx, verified); err != nil {
		return fmt.Errorf("save verified order: %w", err)
	}

	s.Logger.Info("order approved",
		zap.Int64("order_id", order.OrderID),
		zap.String("invoice", invoice),
	)
	return nil
}
