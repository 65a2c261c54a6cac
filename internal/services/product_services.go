package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"
	"github.com/caijiayiLinda/online-shopping-mall/internal/repository"
)

type productStore interface {
	List(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) (int64, error)
	Update(ctx context.Context, p *model.Product, replaceImage bool) error
	Delete(ctx context.Context, id int64) error
}

// ProductInput carries the multipart form fields of a product
// create or update request.
type ProductInput struct {
	CategoryID  int64
	Name        string
	Price       float64
	Description string
}

func (in *ProductInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.CategoryID <= 0 {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	return nil
}

type ProductService struct {
	Repo       productStore
	Categories categoryStore
	Images     *ImageService
}

func NewProductService(r productStore, cr categoryStore, img *ImageService) *ProductService {
	return &ProductService{Repo: r, Categories: cr, Images: img}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.Repo.List(ctx)
}

func (s *ProductService) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	return s.Repo.ListByCategory(ctx, categoryID)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	return s.Repo.GetByID(ctx, id)
}

// Create stores the image, then inserts the product row. The image is
// mandatory on create.
func (s *ProductService) Create(ctx context.Context, in ProductInput, image []byte, imageName string) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is required", ErrValidation)
	}
	if _, err := s.Categories.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown category", ErrValidation)
		}
		return nil, err
	}

	imageURL, thumbURL, err := s.Images.Save(image, imageName)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		CategoryID:   in.CategoryID,
		Name:         in.Name,
		Price:        in.Price,
		Description:  in.Description,
		ImageURL:     imageURL,
		ThumbnailURL: thumbURL,
	}
	id, err := s.Repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ProductID = id
	return p, nil
}

// Update rewrites the product fields; a nil image keeps the existing
// one.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput, image []byte, imageName string) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p := &model.Product{
		ProductID:   id,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
	}

	replaceImage := len(image) > 0
	if replaceImage {
		imageURL, thumbURL, err := s.Images.Save(image, imageName)
		if err != nil {
			return nil, err
		}
		p.ImageURL = imageURL
		p.ThumbnailURL = thumbURL
	}

	if err := s.Repo.Update(ctx, p, replaceImage); err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.Repo.Delete(ctx, id)
}
