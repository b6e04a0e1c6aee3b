// Package httpx exposes the checkout core over HTTP. Exact wire shapes
// live in dto.go; error mapping keeps the taxonomy of the order package:
// validation problems carry a reason, security and dependency failures
// are deliberately generic.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/jcmexdev/vayu-checkout/internal/order"
	"github.com/jcmexdev/vayu-checkout/internal/pkg/cache"
	"github.com/jcmexdev/vayu-checkout/internal/policy"
	"github.com/jcmexdev/vayu-checkout/internal/pricing"
)

// orderStatusTTL bounds how stale a cached status lookup can be. Clients
// poll this endpoint while the payment widget is open, so keep it short.
const orderStatusTTL = 5 * time.Second

var validate = validator.New()

// Handler handles checkout HTTP requests.
type Handler struct {
	service *order.Service
	policy  policy.Policy
	cache   cache.Cache // nil-safe: lookups go straight to the store
}

// NewHandler wires the handler. cache may be nil when Redis is not
// configured.
func NewHandler(service *order.Service, p policy.Policy, c cache.Cache) *Handler {
	return &Handler{service: service, policy: p, cache: c}
}

// CreateOrder validates the request, runs the purchase policy, and
// creates the order. All money math happens server-side; client price
// fields are ignored.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.policy.Allow(r.Context(), req.Contact.Email); err != nil {
		writeError(w, http.StatusForbidden, "purchase_not_available", "")
		return
	}

	result, err := h.service.CreateOrder(r.Context(), order.CreateOrderInput{
		Cart:            mapCart(req.Cart),
		Contact:         order.Contact(req.Contact),
		ShippingAddress: order.ShippingAddress(req.ShippingAddress),
		CouponCode:      req.CouponCode,
	})
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateOrderResponse{
		OrderID:         result.OrderID,
		RazorpayOrderID: result.ProviderOrderID,
		Amount:          result.Amount,
		Currency:        result.Currency,
		KeyID:           result.KeyID,
	})
}

// VerifyPayment checks a claimed payment and reports whether the order is
// now (or already was) PAID.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	o, err := h.service.VerifyPayment(r.Context(),
		req.InternalOrderID, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, VerifyPaymentResponse{
		Success: true,
		OrderID: o.InternalID,
		Message: "Payment verified and order confirmed",
	})
}

// GetOrder returns a limited status view of an order. Served from Redis
// when available to absorb client polling.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	if h.cache != nil {
		key := h.cache.GenerateKey("order-status", orderID)
		if cached, err := h.cache.Get(r.Context(), key); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(cached))
			return
		}
	}

	o, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	resp := mapOrderStatus(o)
	if h.cache != nil {
		if data, err := json.Marshal(resp); err == nil {
			key := h.cache.GenerateKey("order-status", orderID)
			if err := h.cache.Set(r.Context(), key, data, orderStatusTTL); err != nil {
				slog.WarnContext(r.Context(), "order status cache write failed", "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetKey exposes the gateway's public key ID for the payment widget.
// Only the public half of the credential pair; the secret has no route
// out of the process.
func (h *Handler) GetKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, KeyResponse{KeyID: h.service.KeyID()})
}

// Healthz is the liveness endpoint.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func mapCart(c CartDTO) order.Cart {
	items := make([]order.CartItem, len(c.Items))
	for i, it := range c.Items {
		items[i] = order.CartItem(it)
	}
	return order.Cart{Items: items}
}

func mapOrderStatus(o *order.Order) OrderStatusResponse {
	resp := OrderStatusResponse{
		OrderID:   o.InternalID,
		Status:    string(o.Status),
		Amount:    o.Totals.FinalTotal,
		Currency:  o.Currency,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
	if o.PaidAt != nil {
		resp.PaidAt = o.PaidAt.Format(time.RFC3339)
	}
	return resp
}

// writeOrderError maps service errors to HTTP responses. Validation and
// not-found get actionable detail; signature and gateway failures are
// sanitized so responses cannot be used as an oracle.
func writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, pricing.ErrUnknownProduct),
		errors.Is(err, pricing.ErrUnknownVariant),
		errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrInvalidCoupon):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())

	case errors.Is(err, order.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", "")

	case errors.Is(err, order.ErrOrderMismatch):
		writeError(w, http.StatusConflict, "order_mismatch", "")

	case errors.Is(err, order.ErrTransitionConflict),
		errors.Is(err, order.ErrDuplicateOrder):
		writeError(w, http.StatusConflict, "conflict", "")

	case errors.Is(err, order.ErrInvalidSignature):
		writeError(w, http.StatusBadRequest, "verification_failed", "Invalid payment signature")

	case errors.Is(err, order.ErrGatewayUnavailable):
		writeError(w, http.StatusBadGateway, "payment_provider_unavailable",
			"Failed to create payment order. Please try again.")

	default:
		slog.ErrorContext(r.Context(), "unhandled checkout error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error",
			"An error occurred. Please try again.")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
