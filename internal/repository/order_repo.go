package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/caijiayiLinda/online-shopping-mall/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	DB *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{DB: db}
}

// Create inserts the order and its line items in one transaction and
// returns the new order id.
func (r *OrderRepository) Create(ctx context.Context, o *model.Order) (int64, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int64
	query := `
		INSERT INTO orders (currency, merchant_email, salt, total_price, user_id, username, digest, invoice, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		o.Currency, o.MerchantEmail, o.Salt, o.TotalPrice, o.UserID, o.Username,
		o.Digest, o.Invoice, model.OrderStatusPending,
	).Scan(&orderID)
	if err != nil {
		return 0, err
	}

	for _, p := range o.Products {
		itemQuery := `INSERT INTO order_products (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, itemQuery, orderID, p.ProductID, p.Quantity, p.Price); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return orderID, nil
}

const orderColumns = `id, currency, merchant_email, salt, total_price, user_id, username, digest, invoice, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.OrderID, &o.Currency, &o.MerchantEmail, &o.Salt, &o.TotalPrice,
		&o.UserID, &o.Username, &o.Digest, &o.Invoice, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// GetByInvoice returns the order matching the invoice reference, with
// its line items loaded.
func (r *OrderRepository) GetByInvoice(ctx context.Context, invoice string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE invoice=$1`
	o, err := scanOrder(r.DB.QueryRow(ctx, query, invoice))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, []*model.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// ListAll returns every order, newest first, with line items.
func (r *OrderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

// ListRecentByEmail returns the most recent orders placed under the
// given email, capped at limit.
func (r *OrderRepository) ListRecentByEmail(ctx context.Context, email string, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE merchant_email=$1 ORDER BY created_at DESC LIMIT $2`
	return r.queryOrders(ctx, query, email, limit)
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*model.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	if err := r.loadItems(ctx, refs); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*model.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.OrderID)
		byID[o.OrderID] = o
		o.Products = []model.OrderProduct{}
	}

	query := `SELECT id, order_id, product_id, quantity, price FROM order_products WHERE order_id = ANY($1) ORDER BY id`
	rows, err := r.DB.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p model.OrderProduct
		if err := rows.Scan(&p.OrderProductID, &p.OrderID, &p.ProductID, &p.Quantity, &p.Price); err != nil {
			return err
		}
		if o := byID[p.OrderID]; o != nil {
			o.Products = append(o.Products, p)
		}
	}
	return rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	query := `UPDATE orders SET status=$1, updated_at=now() WHERE id=$2`
	tag, err := r.DB.Exec(ctx, query, status, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateVerified writes the verified-order copy produced after a
// successful webhook digest check.
func (r *OrderRepository) CreateVerified(ctx context.Context, v *model.VerifiedOrder) (int64, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	query := `
		INSERT INTO verified_orders (order_id, invoice, user_id, username, email, total_price, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		v.OrderID, v.Invoice, v.UserID, v.Username, v.Email, v.TotalPrice, v.Currency, v.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	for _, p := range v.Products {
		itemQuery := `INSERT INTO verified_order_products (verified_order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, itemQuery, id, p.ProductID, p.Quantity, p.Price); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return id, nil
}
