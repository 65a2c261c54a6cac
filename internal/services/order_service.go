package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"
)

// recentOrderLimit caps the order-history view shown to customers.
const recentOrderLimit = 5

type OrderService struct {
	Repo orderStore
}

func NewOrderService(r orderStore) *OrderService {
	return &OrderService{Repo: r}
}

// ListAll returns every order for the admin panel.
func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.Repo.ListAll(ctx)
}

// ListRecentByEmail returns a customer's most recent orders.
func (s *OrderService) ListRecentByEmail(ctx context.Context, email string) ([]model.Order, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	return s.Repo.ListRecentByEmail(ctx, email, recentOrderLimit)
}
