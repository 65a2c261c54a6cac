package repository

import (
	"context"
	"errors"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	DB *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `pid, catid, name, price, description, image_url, thumbnail_url, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ProductID, &p.CategoryID, &p.Name, &p.Price, &p.Description,
		&p.ImageURL, &p.ThumbnailURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY pid`
	return r.queryProducts(ctx, query)
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE catid=$1 ORDER BY pid`
	return r.queryProducts(ctx, query, categoryID)
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE pid=$1`
	return scanProduct(r.DB.QueryRow(ctx, query, id))
}

// Create inserts a product and returns the new pid.
func (r *ProductRepository) Create(ctx context.Context, p *model.Product) (int64, error) {
	var id int64
	query := `
		INSERT INTO products (catid, name, price, description, image_url, thumbnail_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING pid
	`
	err := r.DB.QueryRow(ctx, query, p.CategoryID, p.Name, p.Price, p.Description, p.ImageURL, p.ThumbnailURL).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites the product's fields. Image URLs are only touched
// when a replacement image was uploaded.
func (r *ProductRepository) Update(ctx context.Context, p *model.Product, replaceImage bool) error {
	var query string
	var args []any
	if replaceImage {
		query = `UPDATE products SET catid=$1, name=$2, price=$3, description=$4, image_url=$5, thumbnail_url=$6, updated_at=now() WHERE pid=$7`
		args = []any{p.CategoryID, p.Name, p.Price, p.Description, p.ImageURL, p.ThumbnailURL, p.ProductID}
	} else {
		query = `UPDATE products SET catid=$1, name=$2, price=$3, description=$4, updated_at=now() WHERE pid=$5`
		args = []any{p.CategoryID, p.Name, p.Price, p.Description, p.ProductID}
	}
	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE pid=$1`
	tag, err := r.DB.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
