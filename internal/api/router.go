package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
)

// NewRouter wires the full /api surface. The payment webhook and the
// identity webhook are the only unauthenticated POST routes; everything
// touching a user's data sits behind the JWT middleware, and /api/admin
// additionally requires the admin role.
func NewRouter(
	handlers *Handlers,
	authHandlers *AuthHandlers,
	paymentHandlers *PaymentHandlers,
	adminHandlers *AdminHandlers,
	jwtService *auth.JWTService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	requireAuth := middleware.AuthMiddleware(jwtService)
	requireAdmin := middleware.RequireRole("admin")

	r.Route("/api", func(r chi.Router) {
		// Catalog (public reads, admin writes)
		r.Route("/products", func(r chi.Router) {
			r.Get("/", handlers.GetProducts)
			r.Get("/featured", handlers.GetFeaturedProducts)
			r.Get("/category/{category}", handlers.GetProductsByCategory)
			r.Get("/{id}", handlers.GetProduct)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Post("/", handlers.CreateProduct)
				r.Put("/{id}", handlers.UpdateProduct)
				r.Delete("/{id}", handlers.DeleteProduct)
			})
		})

		// Identity
		r.Post("/auth/clerk-sync", authHandlers.ClerkSync)
		r.Post("/auth/clerk-webhook", authHandlers.ClerkWebhook)
		r.With(requireAuth).Get("/auth/me", authHandlers.Me)

		// Cart
		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", handlers.GetCart)
			r.Post("/add", handlers.AddToCart)
			r.Put("/item/{id}", handlers.UpdateCartItem)
			r.Delete("/item/{id}", handlers.RemoveCartItem)
			r.Delete("/clear", handlers.ClearCart)
		})

		// Orders
		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", handlers.PlaceOrder)
			r.Get("/", handlers.GetOrders)
			r.Get("/{id}", handlers.GetOrder)
			r.Put("/{id}/status", handlers.UpdateOrderStatus)
		})

		// Payments (webhook is verified by signature, not JWT)
		r.Route("/payment/stripe", func(r chi.Router) {
			r.With(requireAuth).Post("/create", paymentHandlers.CreatePayment)
			r.With(requireAuth).Post("/confirm", paymentHandlers.ConfirmPayment)
			r.Post("/webhook", paymentHandlers.Webhook)
		})

		// Back-office
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, requireAdmin)
			r.Get("/stats", adminHandlers.GetStats)
			r.Get("/analytics", adminHandlers.GetAnalytics)
			r.Get("/orders", adminHandlers.GetOrders)
			r.Get("/orders/{id}", adminHandlers.GetOrder)
			r.Put("/orders/{id}/status", adminHandlers.UpdateOrderStatus)
			r.Put("/orders/{id}/notes", adminHandlers.UpdateOrderNotes)
			r.Get("/customers", adminHandlers.GetCustomers)
			r.Get("/customers/{id}", adminHandlers.GetCustomer)
			r.Put("/customers/{id}/promote", adminHandlers.PromoteCustomer)
			r.Delete("/customers/{id}", adminHandlers.DeleteCustomer)
		})
	})

	return r
}
