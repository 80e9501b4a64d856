package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/payment"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain errors onto HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	var stockErr *cart.InsufficientStockError

	switch {
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &stockErr),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrUnknownStatus),
		errors.Is(err, order.ErrOrderCancelled),
		errors.Is(err, order.ErrOrderDelivered),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock),
		errors.Is(err, product.ErrMissingFields),
		errors.Is(err, user.ErrMissingClerkID),
		errors.Is(err, payment.ErrInvalidSignature):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrAccessDenied):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, cart.ErrConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, payment.ErrPaymentNotCompleted):
		respondError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, payment.ErrGatewayUnavailable):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
