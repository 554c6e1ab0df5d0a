package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/cart"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/product"
)

// EventSink receives notifications about committed order state changes.
// Implementations must be non-blocking and best-effort: a lost event never
// fails the operation that produced it.
type EventSink interface {
	OrderPlaced(o *Order)
	OrderCancelled(o *Order)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OrderPlaced(*Order)    {}
func (NopSink) OrderCancelled(*Order) {}

// Service encapsulates order placement and lifecycle business logic.
type Service struct {
	carts    cart.Repository
	products product.Repository
	orders   Repository
	events   EventSink
}

// NewService creates an order Service with the required domain dependencies.
// A nil events sink is replaced with NopSink.
func NewService(carts cart.Repository, products product.Repository, orders Repository, events EventSink) *Service {
	if events == nil {
		events = NopSink{}
	}
	return &Service{
		carts:    carts,
		products: products,
		orders:   orders,
		events:   events,
	}
}

// PlaceOrder converts the user's current cart into a durable order.
//
// Validation runs against a fresh batch read of the referenced products:
// the cart must be non-empty, every product must still exist, and stock
// must cover every requested quantity. Unit prices are taken from the
// loaded products, never from the client. The order insert and all stock
// decrements then commit in one transaction; a concurrent purchase that
// exhausts stock between the pre-check and the commit surfaces as
// *InsufficientStockError from the repository, with nothing applied.
//
// The cart is cleared only after the transaction commits. A failed clear is
// logged and swallowed: the order stands either way.
func (s *Service) PlaceOrder(ctx context.Context, userID string, addressID *string) (*Order, error) {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if c == nil || len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]string, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ProductID
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	productMap := make(map[string]product.Product, len(fetched))
	for _, p := range fetched {
		productMap[p.ID] = p
	}

	// Validate every line against the fresh read and freeze unit prices.
	items := make([]Item, len(c.Items))
	decrements := make([]StockDecrement, len(c.Items))
	total := decimal.Zero
	for i, line := range c.Items {
		p, ok := productMap[line.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		if p.Stock < line.Quantity {
			return nil, &InsufficientStockError{ProductID: p.ID, Title: p.Title}
		}

		items[i] = Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     p.Price,
		}
		decrements[i] = StockDecrement{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	total = total.Round(2)

	o := &Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		AddressID: addressID,
		Total:     total,
		Status:    StatusPending,
		Items:     items,
	}
	if err := s.orders.CreateWithStockDecrement(ctx, o, decrements); err != nil {
		return nil, err
	}

	// Post-commit, best-effort. The cart staying populated is cosmetic.
	if err := s.carts.Clear(ctx, userID); err != nil {
		zctx.From(ctx).Warn("Cart clear failed after order placement",
			zap.String("order_id", o.ID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
	s.events.OrderPlaced(o)

	return o, nil
}

// CancelOrder cancels a user's own order. Only PENDING orders may be
// cancelled; any other status yields *InvalidTransitionError. Decremented
// stock is not restored.
func (s *Service) CancelOrder(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Do not leak other users' orders: foreign IDs look like missing ones.
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	if o.Status != StatusPending {
		return nil, &InvalidTransitionError{OrderID: orderID, From: o.Status, To: StatusCancelled}
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, StatusCancelled)
	if err != nil {
		return nil, errors.Wrap(err, "update status")
	}
	s.events.OrderCancelled(updated)
	return updated, nil
}

// UpdateStatus is the administrative status override. Any known status may
// move to any other; back-office workflows are not modelled here.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status Status) (*Order, error) {
	return s.orders.UpdateStatus(ctx, orderID, status)
}

// GetOrder returns one of the user's orders by ID.
func (s *Service) GetOrder(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

// ListOrders returns all of the user's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
