package services

import (
	"context"
	"errors"
	"testing"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockOrderStore struct {
	create            func(ctx context.Context, o *model.Order) (int64, error)
	getByInvoice      func(ctx context.Context, invoice string) (*model.Order, error)
	listAll           func(ctx context.Context) ([]model.Order, error)
	listRecentByEmail func(ctx context.Context, email string, limit int) ([]model.Order, error)
	updateStatus      func(ctx context.Context, orderID int64, status string) error
	createVerified    func(ctx context.Context, v *model.VerifiedOrder) (int64, error)
}

func (m *mockOrderStore) Create(ctx context.Context, o *model.Order) (int64, error) {
	return m.create(ctx, o)
}

func (m *mockOrderStore) GetByInvoice(ctx context.Context, invoice string) (*model.Order, error) {
	return m.getByInvoice(ctx, invoice)
}

func (m *mockOrderStore) ListAll(ctx context.Context) ([]model.Order, error) {
	return m.listAll(ctx)
}

func (m *mockOrderStore) ListRecentByEmail(ctx context.Context, email string, limit int) ([]model.Order, error) {
	return m.listRecentByEmail(ctx, email, limit)
}

func (m *mockOrderStore) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	return m.updateStatus(ctx, orderID, status)
}

func (m *mockOrderStore) CreateVerified(ctx context.Context, v *model.VerifiedOrder) (int64, error) {
	return m.createVerified(ctx, v)
}

type mockGateway struct {
	createOrder func(ctx context.Context, invoice, currency string, items []model.CartItem, total float64) (string, error)
}

func (m *mockGateway) CreateOrder(ctx context.Context, invoice, currency string, items []model.CartItem, total float64) (string, error) {
	return m.createOrder(ctx, invoice, currency, items, total)
}

func testItems() []model.CartItem {
	return []model.CartItem{
		{ProductID: 1, Name: "mug", Price: 9.99, Quantity: 2},
		{ProductID: 2, Name: "shirt", Price: 25.50, Quantity: 1},
	}
}

func TestCalculateTotal(t *testing.T) {
	assert.InDelta(t, 45.48, CalculateTotal(testItems()), 1e-9)
	assert.Zero(t, CalculateTotal(nil))
}

func TestCheckoutPersistsOrderAndReturnsApprovalURL(t *testing.T) {
	var saved *model.Order
	store := &mockOrderStore{
		create: func(ctx context.Context, o *model.Order) (int64, error) {
			saved = o
			return 11, nil
		},
	}
	gw := &mockGateway{
		createOrder: func(ctx context.Context, invoice, currency string, items []model.CartItem, total float64) (string, error) {
			assert.Equal(t, "INV-1", invoice)
			assert.Equal(t, Currency, currency)
			assert.InDelta(t, 45.48, total, 1e-9)
			return "https://paypal.example/approve", nil
		},
	}
	svc := NewCheckoutService(store, gw, zap.NewNop())

	url, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:   testItems(),
		Invoice: "INV-1",
		Email:   "buyer@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://paypal.example/approve", url)
	require.NotNil(t, saved)
	assert.Equal(t, Currency, saved.Currency)
	assert.Equal(t, "buyer@example.com", saved.MerchantEmail)
	assert.Equal(t, "guest", saved.Username)
	assert.InDelta(t, 45.48, saved.TotalPrice, 1e-9)
	assert.Len(t, saved.Products, 2)
	assert.NotEmpty(t, saved.Salt)
	assert.Len(t, saved.Digest, 64)
}

func TestCheckoutValidation(t *testing.T) {
	svc := NewCheckoutService(&mockOrderStore{}, &mockGateway{}, zap.NewNop())

	_, err := svc.Checkout(context.Background(), CheckoutRequest{Invoice: "INV-1", Email: "buyer@example.com"})
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.Checkout(context.Background(), CheckoutRequest{Items: testItems(), Email: "buyer@example.com"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Checkout(context.Background(), CheckoutRequest{Items: testItems(), Invoice: "INV-1", Email: "bad"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Checkout(context.Background(), CheckoutRequest{
		Items:   []model.CartItem{{ProductID: 1, Price: 10, Quantity: 0}},
		Invoice: "INV-1",
		Email:   "buyer@example.com",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckoutGatewayFailure(t *testing.T) {
	store := &mockOrderStore{
		create: func(ctx context.Context, o *model.Order) (int64, error) { return 11, nil },
	}
	gw := &mockGateway{
		createOrder: func(ctx context.Context, invoice, currency string, items []model.CartItem, total float64) (string, error) {
			return "", errors.New("provider down")
		},
	}
	svc := NewCheckoutService(store, gw, zap.NewNop())

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Items:   testItems(),
		Invoice: "INV-1",
		Email:   "buyer@example.com",
	})

	assert.ErrorContains(t, err, "provider down")
}

// pendingOrder builds an order the way Checkout persists it, so that
// ApprovePayment's digest re-derivation matches.
func pendingOrder() *model.Order {
	items := testItems()
	total := CalculateTotal(items)
	o := &model.Order{
		OrderID:       11,
		Currency:      Currency,
		MerchantEmail: "buyer@example.com",
		Salt:          "1724800000000000000",
		TotalPrice:    total,
		Username:      "guest",
		Invoice:       "INV-1",
		Status:        model.OrderStatusPending,
	}
	o.Digest = computeDigest(o.Currency, o.MerchantEmail, o.Salt, items, total)
	for _, it := range items {
		o.Products = append(o.Products, model.OrderProduct{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return o
}

func TestApprovePaymentFinalizesOrder(t *testing.T) {
	var statusSet string
	var verified *model.VerifiedOrder
	store := &mockOrderStore{
		getByInvoice: func(ctx context.Context, invoice string) (*model.Order, error) {
			return pendingOrder(), nil
		},
		updateStatus: func(ctx context.Context, orderID int64, status string) error {
			statusSet = status
			return nil
		},
		createVerified: func(ctx context.Context, v *model.VerifiedOrder) (int64, error) {
			verified = v
			return 1, nil
		},
	}
	svc := NewCheckoutService(store, &mockGateway{}, zap.NewNop())

	err := svc.ApprovePayment(context.Background(), "INV-1")

	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusApproved, statusSet)
	require.NotNil(t, verified)
	assert.Equal(t, int64(11), verified.OrderID)
	assert.Equal(t, "INV-1", verified.Invoice)
	assert.Len(t, verified.Products, 2)
}

func TestApprovePaymentIdempotentOnApproved(t *testing.T) {
	store := &mockOrderStore{
		getByInvoice: func(ctx context.Context, invoice string) (*model.Order, error) {
			o := pendingOrder()
			o.Status = model.OrderStatusApproved
			return o, nil
		},
		updateStatus: func(ctx context.Context, orderID int64, status string) error {
			t.Fatal("status must not be rewritten for an approved order")
			return nil
		},
	}
	svc := NewCheckoutService(store, &mockGateway{}, zap.NewNop())

	assert.NoError(t, svc.ApprovePayment(context.Background(), "INV-1"))
}

func TestApprovePaymentDetectsTampering(t *testing.T) {
	store := &mockOrderStore{
		getByInvoice: func(ctx context.Context, invoice string) (*model.Order, error) {
			o := pendingOrder()
			o.TotalPrice += 0.01
			return o, nil
		},
		updateStatus: func(ctx context.Context, orderID int64, status string) error {
			t.Fatal("tampered order must not be approved")
			return nil
		},
	}
	svc := NewCheckoutService(store, &mockGateway{}, zap.NewNop())

	err := svc.ApprovePayment(context.Background(), "INV-1")

	assert.ErrorIs(t, err, ErrDigestMismatch)
}

func TestComputeDigestIsStable(t *testing.T) {
	items := testItems()
	a := computeDigest(Currency, "buyer@example.com", "salt", items, 45.48)
	b := computeDigest(Currency, "buyer@example.com", "salt", items, 45.48)
	c := computeDigest(Currency, "buyer@example.com", "salt", items, 45.49)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
