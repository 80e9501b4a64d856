package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
)

// Handlers serves the storefront surface: catalog, cart and orders.
type Handlers struct {
	products *product.Service
	carts    *cart.Service
	orders   *order.Service
}

func NewHandlers(products *product.Service, carts *cart.Service, orders *order.Service) *Handlers {
	return &Handlers{
		products: products,
		carts:    carts,
		orders:   orders,
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := product.ListOptions{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Page:     intParam(q.Get("page"), 1),
		Limit:    intParam(q.Get("limit"), 12),
	}

	result, err := h.products.List(r.Context(), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) GetProductsByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r.URL.Query().Get("limit"), 0)
	products, err := h.products.ListFeatured(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p product.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.products.Create(r.Context(), &p)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p product.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.ID = chi.URLParam(r, "id")

	updated, err := h.products.Update(r.Context(), &p)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	c, err := h.carts.AddItem(r.Context(), middleware.GetUserID(r.Context()), req.ProductID, req.Quantity, req.Size)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.carts.UpdateItemQuantity(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.RemoveItem(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Clear(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Order Handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress order.ShippingAddress `json:"shipping_address"`
		PaymentMethod   string                `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orders.Create(r.Context(), middleware.GetUserID(r.Context()), req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"), middleware.GetUserID(r.Context()), isAdmin(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// UpdateOrderStatus lets a customer cancel their own pending order. All
// other transitions are admin-only and live on the admin routes.
func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	if !isAdmin(r) {
		o, err := h.orders.Get(r.Context(), id, middleware.GetUserID(r.Context()), false)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if order.Status(req.Status) != order.StatusCancelled || o.UserID != middleware.GetUserID(r.Context()) {
			respondError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	o, err := h.orders.UpdateStatus(r.Context(), id, order.Status(req.Status), req.Note)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// Helpers

func intParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func isAdmin(r *http.Request) bool {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == "admin"
}
