package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/cart"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/category"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/order"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/product"
	"github.com/Yaseer123/etc-ecommerce-sub001/internal/domain/user"
)

// errorResponse is the uniform JSON error body.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Code: status, Message: message})
}

// decodeBody parses a JSON request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondDomainError translates typed domain errors into HTTP responses.
// Anything unrecognized is a 500; the cause is logged, not leaked.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, category.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, user.ErrAddressNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, user.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, err.Error())
	default:
		var (
			pnf *order.ProductNotFoundError
			ins *order.InsufficientStockError
			inv *order.InvalidTransitionError
		)
		switch {
		case errors.As(err, &pnf):
			respondError(w, http.StatusUnprocessableEntity, pnf.Error())
		case errors.As(err, &ins):
			respondError(w, http.StatusConflict, ins.Error())
		case errors.As(err, &inv):
			respondError(w, http.StatusConflict, inv.Error())
		default:
			zctx.From(r.Context()).Error("Request failed", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "internal error")
		}
	}
}
