package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewRouter builds the HTTP surface. Payment routes keep the
// /api/payments/razorpay prefix the storefront already calls.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/payments/razorpay", func(r chi.Router) {
			r.Post("/create-order", handler.CreateOrder)
			r.Post("/verify", handler.VerifyPayment)
			r.Get("/key", handler.GetKey)
		})
		r.Get("/orders/{id}", handler.GetOrder)
	})

	r.Get("/healthz", handler.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	// otelhttp wraps the whole mux so every request gets a server span.
	return otelhttp.NewHandler(r, "checkout-service")
}
