package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"
)

type categoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetIDByName(ctx context.Context, name string) (int64, error)
	Create(ctx context.Context, name string) (int64, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

type CategoryService struct {
	Repo categoryStore
}

func NewCategoryService(r categoryStore) *CategoryService {
	return &CategoryService{Repo: r}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.Repo.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*model.Category, error) {
	return s.Repo.GetByID(ctx, id)
}

// ResolveID maps a navigation name to its category id.
func (s *CategoryService) ResolveID(ctx context.Context, name string) (int64, error) {
	return s.Repo.GetIDByName(ctx, strings.TrimSpace(name))
}

func (s *CategoryService) Create(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: category name required", ErrValidation)
	}
	return s.Repo.Create(ctx, name)
}

func (s *CategoryService) Update(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: category name required", ErrValidation)
	}
	return s.Repo.Update(ctx, id, name)
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
