package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/order"
)

const (
	// The WHERE clause makes the decrement conditional: zero rows affected
	// means a concurrent purchase took the remaining units first.
	decrementStockSQL = `UPDATE products SET stock = stock - $2
		WHERE id = $1 AND stock >= $2
		RETURNING title`

	insertOrderSQL = `INSERT INTO orders (id, user_id, address_id, total, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)`

	getOrderSQL = `SELECT id, user_id, address_id, total, status, created_at
		FROM orders WHERE id = $1`

	listOrdersByUserSQL = `SELECT id, user_id, address_id, total, status, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	getOrderItemsSQL = `SELECT order_id, product_id, quantity, price
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY product_id`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateWithStockDecrement inserts the order and its items and applies
// every stock decrement inside one transaction.
//
// Each decrement only matches when the product still holds enough stock,
// so the row count is the commit-time authority for availability: any
// line that matches zero rows aborts the transaction and surfaces as
// *order.InsufficientStockError (or *order.ProductNotFoundError when the
// product row is gone entirely). Two competing orders for the last units
// serialize on the product row lock; the loser's UPDATE matches nothing.
func (r *OrderRepository) CreateWithStockDecrement(ctx context.Context, o *order.Order, decrements []order.StockDecrement) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	for _, d := range decrements {
		var title string
		err := tx.QueryRow(ctx, decrementStockSQL, d.ProductID, d.Quantity).Scan(&title)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("decrementing stock for product %q: %w", d.ProductID, err)
		}

		// Distinguish "not enough stock" from "product deleted".
		var exists bool
		if lookupErr := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, d.ProductID,
		).Scan(&exists); lookupErr != nil {
			return fmt.Errorf("checking product %q: %w", d.ProductID, lookupErr)
		}
		if !exists {
			return &order.ProductNotFoundError{ProductID: d.ProductID}
		}

		var insufficientTitle string
		if lookupErr := tx.QueryRow(ctx,
			`SELECT title FROM products WHERE id = $1`, d.ProductID,
		).Scan(&insufficientTitle); lookupErr != nil {
			return fmt.Errorf("checking product %q: %w", d.ProductID, lookupErr)
		}
		return &order.InsufficientStockError{ProductID: d.ProductID, Title: insufficientTitle}
	}

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.ID, o.UserID, o.AddressID, o.Total, string(o.Status),
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	for _, item := range o.Items {
		if _, err := tx.Exec(ctx, insertOrderItemSQL,
			o.ID, item.ProductID, item.Quantity, item.Price,
		); err != nil {
			return fmt.Errorf("creating order item %q/%q: %w", o.ID, item.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns a single order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	itemsByOrder, err := r.loadItems(ctx, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = itemsByOrder[o.ID]
	return &o, nil
}

// ListByUser returns all of a user's orders, newest first, with items.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	itemsByOrder, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}
	return orders, nil
}

// UpdateStatus sets the order's status and returns the updated order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	ct, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return nil, fmt.Errorf("updating order %q status: %w", id, err)
	}
	if ct.RowsAffected() == 0 {
		return nil, order.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []string) (map[string][]order.Item, error) {
	rows, err := r.pool.Query(ctx, getOrderItemsSQL, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("loading order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]order.Item)
	for rows.Next() {
		var (
			orderID string
			item    order.Item
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items[orderID] = append(items[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading order items: %w", err)
	}
	return items, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		status string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.AddressID, &o.Total, &status, &o.CreatedAt)
	o.Status = order.Status(status)
	return o, err
}
