package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/order"
)

type orderItemDTO struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type orderDTO struct {
	ID        string         `json:"id"`
	Total     float64        `json:"total"`
	Status    string         `json:"status"`
	AddressID *string        `json:"addressId,omitempty"`
	Items     []orderItemDTO `json:"items"`
	CreatedAt string         `json:"createdAt"`
}

func toOrderDTO(o *order.Order) orderDTO {
	items := make([]orderItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
		}
	}
	return orderDTO{
		ID:        o.ID,
		Total:     o.Total.InexactFloat64(),
		Status:    string(o.Status),
		AddressID: o.AddressID,
		Items:     items,
		CreatedAt: formatTime(o.CreatedAt),
	}
}

type placeOrderRequest struct {
	AddressID *string `json:"addressId,omitempty"`
}

// placeOrder converts the caller's cart into an order. The body is optional
// and may carry a shipping address reference.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var req placeOrderRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	o, err := h.orders.PlaceOrder(r.Context(), id.UserID, req.AddressID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toOrderDTO(o))
}

// listOrders returns the caller's orders, newest first.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	orders, err := h.orders.ListOrders(r.Context(), id.UserID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]orderDTO, len(orders))
	for i := range orders {
		out[i] = toOrderDTO(&orders[i])
	}
	respondJSON(w, http.StatusOK, out)
}

// getOrder returns one of the caller's orders.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	o, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "orderID"), id.UserID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

// cancelOrder cancels one of the caller's PENDING orders.
func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	o, err := h.orders.CancelOrder(r.Context(), chi.URLParam(r, "orderID"), id.UserID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o))
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// adminUpdateOrderStatus is the back-office status override.
func (h *Handler) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "orderID"), status)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(o))
}
