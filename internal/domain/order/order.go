package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status enumerates the lifecycle states of an order.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// ParseStatus validates a raw status value from a client.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", errors.Errorf("unknown order status %q", s)
}

// Order is an immutable record of a completed purchase. Only Status may
// change after creation; items and total are frozen at placement time.
type Order struct {
	ID        string
	UserID    string
	AddressID *string
	Total     decimal.Decimal
	Status    Status
	Items     []Item
	CreatedAt time.Time
}

// Item is a frozen copy of one cart line at the time of purchase. Price is
// the unit price captured during validation, decoupled from the live
// product price.
type Item struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
}

// StockDecrement describes one conditional stock deduction to apply inside
// the order creation transaction.
type StockDecrement struct {
	ProductID string
	Quantity  int
}

// Sentinel errors for order operations.
var (
	// ErrEmptyCart is returned when placing an order from a missing or
	// empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotFound is returned when a requested order does not exist or
	// belongs to another user.
	ErrNotFound = errors.New("order not found")
)

// ProductNotFoundError indicates a cart line references a product that no
// longer exists (deleted after it was added to the cart).
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InsufficientStockError indicates a product cannot cover the requested
// quantity. It carries the product title so callers can render a
// user-facing message.
type InsufficientStockError struct {
	ProductID string
	Title     string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (%s)", e.Title, e.ProductID)
}

// InvalidTransitionError indicates a status change that is not allowed from
// the order's current status.
type InvalidTransitionError struct {
	OrderID string
	From    Status
	To      Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s: cannot transition from %s to %s", e.OrderID, e.From, e.To)
}

// Repository defines persistence operations for orders.
//
// CreateWithStockDecrement must execute the order insert and every stock
// decrement in a single atomic transaction. Each decrement is conditional
// on sufficient remaining stock; when any product cannot cover its
// quantity, the implementation returns *InsufficientStockError and no
// change is committed. The decrement inside the transaction, not any prior
// read, is the authority for insufficient-stock detection.
type Repository interface {
	CreateWithStockDecrement(ctx context.Context, o *Order, decrements []StockDecrement) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
}
