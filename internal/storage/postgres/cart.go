package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/cart"
)

const (
	getCartSQL = `SELECT id FROM carts WHERE user_id = $1`

	// Lazy creation: the cart row appears on first add and survives clears.
	ensureCartSQL = `INSERT INTO carts (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id`

	getCartItemsSQL = `SELECT product_id, quantity FROM cart_items
		WHERE cart_id = $1 ORDER BY product_id`

	upsertCartItemSQL = `INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	setCartItemSQL = `UPDATE cart_items SET quantity = $3
		WHERE cart_id = $1 AND product_id = $2`

	deleteCartItemSQL = `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`

	clearCartSQL = `DELETE FROM cart_items
		WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1)`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetByUser returns the user's cart with its items. A user with no cart row
// yet gets an empty cart, not an error.
func (r *CartRepository) GetByUser(ctx context.Context, userID string) (*cart.Cart, error) {
	var cartID string
	err := r.pool.QueryRow(ctx, getCartSQL, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &cart.Cart{UserID: userID, Items: []cart.Item{}}, nil
		}
		return nil, fmt.Errorf("getting cart for user %q: %w", userID, err)
	}
	return r.load(ctx, cartID, userID)
}

// AddItem upserts a line into the user's cart, creating the cart lazily.
// Adding an already-present product increases its quantity.
func (r *CartRepository) AddItem(ctx context.Context, userID, productID string, quantity int) (*cart.Cart, error) {
	var cartID string
	err := r.pool.QueryRow(ctx, ensureCartSQL, uuid.New().String(), userID).Scan(&cartID)
	if err != nil {
		return nil, fmt.Errorf("ensuring cart for user %q: %w", userID, err)
	}

	if _, err := r.pool.Exec(ctx, upsertCartItemSQL, cartID, productID, quantity); err != nil {
		return nil, fmt.Errorf("adding product %q to cart: %w", productID, err)
	}
	return r.load(ctx, cartID, userID)
}

// UpdateItem replaces the quantity of an existing cart line.
func (r *CartRepository) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*cart.Cart, error) {
	var cartID string
	if err := r.pool.QueryRow(ctx, getCartSQL, userID).Scan(&cartID); err != nil {
		return nil, cart.ErrItemNotFound
	}

	ct, err := r.pool.Exec(ctx, setCartItemSQL, cartID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("updating product %q in cart: %w", productID, err)
	}
	if ct.RowsAffected() == 0 {
		return nil, cart.ErrItemNotFound
	}
	return r.load(ctx, cartID, userID)
}

// RemoveItem deletes a line from the user's cart.
func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID string) (*cart.Cart, error) {
	var cartID string
	if err := r.pool.QueryRow(ctx, getCartSQL, userID).Scan(&cartID); err != nil {
		return nil, cart.ErrItemNotFound
	}

	ct, err := r.pool.Exec(ctx, deleteCartItemSQL, cartID, productID)
	if err != nil {
		return nil, fmt.Errorf("removing product %q from cart: %w", productID, err)
	}
	if ct.RowsAffected() == 0 {
		return nil, cart.ErrItemNotFound
	}
	return r.load(ctx, cartID, userID)
}

// Clear deletes all items from the user's cart. The cart row itself stays.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, clearCartSQL, userID); err != nil {
		return fmt.Errorf("clearing cart for user %q: %w", userID, err)
	}
	return nil
}

func (r *CartRepository) load(ctx context.Context, cartID, userID string) (*cart.Cart, error) {
	rows, err := r.pool.Query(ctx, getCartItemsSQL, cartID)
	if err != nil {
		return nil, fmt.Errorf("loading cart %q: %w", cartID, err)
	}
	defer rows.Close()

	items := []cart.Item{}
	for rows.Next() {
		var item cart.Item
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scanning cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading cart %q: %w", cartID, err)
	}

	return &cart.Cart{ID: cartID, UserID: userID, Items: items}, nil
}
