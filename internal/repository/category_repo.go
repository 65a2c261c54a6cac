package repository

import (
	"context"
	"errors"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	query := `SELECT catid, name FROM categories ORDER BY catid`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.CategoryID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	query := `SELECT catid, name FROM categories WHERE catid=$1`
	var c model.Category
	if err := r.DB.QueryRow(ctx, query, id).Scan(&c.CategoryID, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetIDByName resolves the navigation name -> id mapping.
func (r *CategoryRepository) GetIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	query := `SELECT catid FROM categories WHERE name=$1`
	if err := r.DB.QueryRow(ctx, query, name).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *CategoryRepository) Create(ctx context.Context, name string) (int64, error) {
	var id int64
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING catid`
	if err := r.DB.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, name string) error {
	query := `UPDATE categories SET name=$1 WHERE catid=$2`
	tag, err := r.DB.Exec(ctx, query, name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE catid=$1`
	tag, err := r.DB.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
