// Package handler exposes the storefront and back-office API over HTTP.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/auth"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/cart"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/category"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/order"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/product"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/user"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
}

// Handler wires the domain services and repositories to HTTP routes.
type Handler struct {
	products     product.Repository
	carts        cart.Repository
	orders       *order.Service
	categories   *category.Service
	users        user.Repository
	security     *Security
	imageBaseURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	products product.Repository,
	carts cart.Repository,
	orders *order.Service,
	categories *category.Service,
	users user.Repository,
	apikeys auth.Repository,
	pepper []byte,
) *Handler {
	return &Handler{
		products:     products,
		carts:        carts,
		orders:       orders,
		categories:   categories,
		users:        users,
		security:     NewSecurity(apikeys, pepper),
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes builds the chi router for the whole API surface.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Public storefront reads.
	r.Get("/products", h.listProducts)
	r.Get("/products/{productID}", h.getProduct)
	r.Get("/categories", h.getCategoryTree)

	// Authenticated customer surface.
	r.Group(func(r chi.Router) {
		r.Use(h.security.Authenticate)

		r.Get("/cart", h.getCart)
		r.Delete("/cart", h.clearCart)
		r.Post("/cart/items", h.addCartItem)
		r.Put("/cart/items/{productID}", h.updateCartItem)
		r.Delete("/cart/items/{productID}", h.removeCartItem)

		r.Post("/orders", h.placeOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{orderID}", h.getOrder)
		r.Post("/orders/{orderID}/cancel", h.cancelOrder)

		r.Get("/addresses", h.listAddresses)
		r.Post("/addresses", h.createAddress)
	})

	// Back office.
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.security.Authenticate, h.security.RequireAdmin)

		r.Post("/products", h.adminCreateProduct)
		r.Put("/products/{productID}", h.adminUpdateProduct)
		r.Delete("/products/{productID}", h.adminDeleteProduct)

		r.Post("/categories", h.adminCreateCategory)
		r.Put("/categories/{categoryID}", h.adminUpdateCategory)
		r.Delete("/categories/{categoryID}", h.adminDeleteCategory)

		r.Get("/users", h.adminListUsers)
		r.Get("/users/{userID}", h.adminGetUser)
		r.Post("/users", h.adminCreateUser)
		r.Put("/users/{userID}", h.adminUpdateUser)
		r.Delete("/users/{userID}", h.adminDeleteUser)

		r.Put("/orders/{orderID}/status", h.adminUpdateOrderStatus)
	})

	return r
}

// formatTime renders timestamps consistently across responses.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
