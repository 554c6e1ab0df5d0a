package cart

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrItemNotFound is returned when updating or removing a cart line that
// does not exist.
var ErrItemNotFound = errors.New("cart item not found")

// Cart holds a user's in-progress product selections prior to checkout.
// Every user owns at most one cart, created lazily on first add.
type Cart struct {
	ID     string
	UserID string
	Items  []Item
}

// Item is a single product/quantity line in a cart. Quantity is always
// positive; removing a line deletes it instead of zeroing it.
type Item struct {
	ProductID string
	Quantity  int
}

// Repository defines persistence operations for carts.
//
// GetByUser returns a cart with zero items (not an error) when the user has
// no cart yet, so callers can treat "no cart" and "empty cart" uniformly.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*Cart, error)
	Clear(ctx context.Context, userID string) error
}
