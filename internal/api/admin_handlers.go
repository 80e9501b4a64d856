package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/storefront/internal/admin"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/user"
)

// AdminHandlers serves the back-office: dashboard, order management,
// customers and analytics.
type AdminHandlers struct {
	admin  *admin.Service
	orders *order.Service
	users  *user.Service
}

func NewAdminHandlers(adminSvc *admin.Service, orders *order.Service, users *user.Service) *AdminHandlers {
	return &AdminHandlers{
		admin:  adminSvc,
		orders: orders,
		users:  users,
	}
}

func (h *AdminHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.admin.DashboardStats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

func (h *AdminHandlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := order.ListOptions{
		Status:     order.Status(q.Get("status")),
		Search:     q.Get("search"),
		DateFilter: q.Get("dateFilter"),
		Page:       intParam(q.Get("page"), 1),
		Limit:      intParam(q.Get("limit"), 10),
	}

	orders, total, err := h.orders.ListAll(r.Context(), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	respondJSON(w, http.StatusOK, map[string]any{
		"orders":      orders,
		"total":       total,
		"currentPage": opts.Page,
		"totalPages":  totalPages,
	})
}

func (h *AdminHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *AdminHandlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), order.Status(req.Status), req.Note)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *AdminHandlers) UpdateOrderNotes(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AdminNotes        *string    `json:"adminNotes"`
		TrackingNumber    *string    `json:"trackingNumber"`
		EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.UpdateAdminFields(r.Context(), chi.URLParam(r, "id"),
		req.AdminNotes, req.TrackingNumber, req.EstimatedDelivery)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *AdminHandlers) GetCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.admin.ListCustomers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *AdminHandlers) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.admin.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *AdminHandlers) PromoteCustomer(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Promote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *AdminHandlers) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted"})
}

func (h *AdminHandlers) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	timeRange := r.URL.Query().Get("timeRange")
	if timeRange == "" {
		timeRange = "7d"
	}

	analytics, err := h.admin.GetAnalytics(r.Context(), timeRange)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, analytics)
}
