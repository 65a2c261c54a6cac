package paypal

import (
	"context"
	"errors"
	"fmt"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"

	"github.com/plutov/paypal/v4"
	"github.com/sony/gobreaker/v2"
)

var ErrNoApprovalLink = errors.New("paypal order has no approval link")

// Gateway wraps the PayPal REST client behind a circuit breaker so a
// provider outage fails checkouts fast instead of stacking up slow
// requests.
type Gateway struct {
	client    *paypal.Client
	breaker   *gobreaker.CircuitBreaker[*paypal.Order]
	returnURL string
	cancelURL string
}

func NewGateway(clientID, secret, returnURL, cancelURL string) (*Gateway, error) {
	client, err := paypal.NewClient(clientID, secret, paypal.APIBaseSandBox)
	if err != nil {
		return nil, fmt.Errorf("init paypal client: %w", err)
	}
	return &Gateway{
		client:    client,
		breaker:   gobreaker.NewCircuitBreaker[*paypal.Order](gobreaker.Settings{Name: "paypal"}),
		returnURL: returnURL,
		cancelURL: cancelURL,
	}, nil
}

// CreateOrder creates a capture-intent order and returns the buyer
// approval URL.
func (g *Gateway) CreateOrder(ctx context.Context, invoice, currency string, items []model.CartItem, total float64) (string, error) {
	order, err := g.breaker.Execute(func() (*paypal.Order, error) {
		if _, err := g.client.GetAccessToken(ctx); err != nil {
			return nil, fmt.Errorf("paypal auth: %w", err)
		}

		unit := paypal.PurchaseUnitRequest{
			ReferenceID: invoice,
			CustomID:    invoice,
			Amount: &paypal.PurchaseUnitAmount{
				Currency: currency,
				Value:    fmt.Sprintf("%.2f", total),
				Breakdown: &paypal.PurchaseUnitAmountBreakdown{
					ItemTotal: &paypal.Money{
						Currency: currency,
						Value:    fmt.Sprintf("%.2f", total),
					},
				},
			},
			Items: buildItems(currency, items),
		}

		return g.client.CreateOrder(
			ctx,
			paypal.OrderIntentCapture,
			[]paypal.PurchaseUnitRequest{unit},
			nil,
			&paypal.ApplicationContext{
				ReturnURL: g.returnURL,
				CancelURL: g.cancelURL,
			},
		)
	})
	if err != nil {
		return "", err
	}

	for _, link := range order.Links {
		if link.Rel == "approve" {
			return link.Href, nil
		}
	}
	return "", ErrNoApprovalLink
}

func buildItems(currency string, items []model.CartItem) []paypal.Item {
	out := make([]paypal.Item, 0, len(items))
	for _, it := range items {
		out = append(out, paypal.Item{
			Name:        it.Name,
			UnitAmount:  &paypal.Money{Currency: currency, Value: fmt.Sprintf("%.2f", it.Price)},
			Quantity:    fmt.Sprintf("%d", it.Quantity),
			SKU:         fmt.Sprintf("%d", it.ProductID),
			Description: it.Name,
		})
	}
	return out
}
