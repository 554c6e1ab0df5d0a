package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/cart"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/product"
)

type cartItemDTO struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type cartDTO struct {
	Items []cartItemDTO `json:"items"`
}

func toCartDTO(c *cart.Cart) cartDTO {
	items := make([]cartItemDTO, len(c.Items))
	for i, item := range c.Items {
		items[i] = cartItemDTO{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return cartDTO{Items: items}
}

// getCart returns the caller's cart, empty when none exists yet.
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	c, err := h.carts.GetByUser(r.Context(), id.UserID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(c))
}

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// addCartItem upserts a product line into the caller's cart. The product
// must exist; quantity must be positive. Stock is not reserved here; it is
// only checked and taken at order placement.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req addCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be greater than 0")
		return
	}

	if _, err := h.products.GetByID(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(w, http.StatusUnprocessableEntity, "product not found")
			return
		}
		respondDomainError(w, r, err)
		return
	}

	c, err := h.carts.AddItem(r.Context(), id.UserID, req.ProductID, req.Quantity)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(c))
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// updateCartItem replaces the quantity of an existing cart line.
func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req updateCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be greater than 0")
		return
	}

	c, err := h.carts.UpdateItem(r.Context(), id.UserID, chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(c))
}

// removeCartItem deletes one line from the caller's cart.
func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	c, err := h.carts.RemoveItem(r.Context(), id.UserID, chi.URLParam(r, "productID"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(c))
}

// clearCart empties the caller's cart.
func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	if err := h.carts.Clear(r.Context(), id.UserID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
