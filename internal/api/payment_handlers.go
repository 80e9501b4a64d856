package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/payment"
)

// PaymentHandlers exposes the Stripe payment flow.
type PaymentHandlers struct {
	payments *payment.Service
}

func NewPaymentHandlers(payments *payment.Service) *PaymentHandlers {
	return &PaymentHandlers{payments: payments}
}

// CreatePayment opens a payment intent for one of the caller's orders.
func (h *PaymentHandlers) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	result, err := h.payments.CreatePayment(r.Context(), req.OrderID, middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ConfirmPayment is called by the client once the browser SDK reports the
// intent as succeeded.
func (h *PaymentHandlers) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentIntentID string `json:"payment_intent_id"`
		OrderID         string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PaymentIntentID == "" || req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "payment_intent_id and order_id are required")
		return
	}

	if err := h.payments.ConfirmPayment(r.Context(), req.PaymentIntentID, req.OrderID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Payment confirmed"})
}

// Webhook receives gateway callbacks. The raw body is needed for signature
// verification, so this route must not sit behind any body-rewriting
// middleware.
func (h *PaymentHandlers) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	if err := h.payments.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"received": "true"})
}
