package order

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/vayu-checkout/internal/events"
	"github.com/jcmexdev/vayu-checkout/internal/pkg/metric"
	"github.com/jcmexdev/vayu-checkout/internal/pricing"
	"github.com/jcmexdev/vayu-checkout/internal/razorpay"
)

// Service orchestrates checkout: pricing → gateway order → persistence,
// and later payment verification → PAID transition. It is stateless
// between requests; any number of calls may run concurrently, with the
// store's conditional Transition as the only serialization point.
type Service struct {
	catalog   *pricing.Catalog
	store     Store
	gateway   Gateway
	publisher events.Publisher // nil-safe: events skipped if nil

	keyID     string
	keySecret string
	currency  string
}

// NewService wires the service. publisher may be nil when event
// publishing is not configured.
func NewService(catalog *pricing.Catalog, store Store, gateway Gateway, publisher events.Publisher, keyID, keySecret, currency string) *Service {
	return &Service{
		catalog:   catalog,
		store:     store,
		gateway:   gateway,
		publisher: publisher,
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
	}
}

// CreateOrderInput is the logical payload of a checkout request. Client
// money fields inside the cart are recorded in the snapshot but never
// trusted.
type CreateOrderInput struct {
	Cart            Cart
	Contact         Contact
	ShippingAddress ShippingAddress
	CouponCode      string
}

// CreateOrderResult is what the client needs to open the payment widget.
// KeyID is the gateway's public key identifier; the secret never leaves
// the process.
type CreateOrderResult struct {
	OrderID         string
	ProviderOrderID string
	Amount          float64
	Currency        string
	KeyID           string
}

// CreateOrder computes canonical totals, registers the order with the
// payment gateway, and persists a CREATED record. Nothing is persisted if
// the gateway call fails, so an aborted checkout leaves no trace.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if len(in.Cart.Items) == 0 {
		metric.OrdersCreatedTotal.WithLabelValues("rejected").Inc()
		return nil, ErrEmptyCart
	}

	// Single line item for this domain; the canonical price comes from
	// the catalog, never from item.UnitPrice.
	item := in.Cart.Items[0]

	totals, err := s.catalog.Quote(item.ProductID, item.VariantID, item.Quantity, in.CouponCode)
	if err != nil {
		metric.OrdersCreatedTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	internalID := newOrderID()

	start := time.Now()
	providerOrderID, err := s.gateway.CreateOrder(ctx, totals.AmountMinor, s.currency, "vayu_"+internalID, map[string]string{
		"internal_order_id": internalID,
		"product":           item.ProductID,
		"variant":           item.VariantID,
		"quantity":          fmt.Sprintf("%d", item.Quantity),
		"email":             in.Contact.Email,
	})
	metric.ObserveGateway(time.Since(start))
	if err != nil {
		metric.OrdersCreatedTotal.WithLabelValues("gateway_error").Inc()
		slog.ErrorContext(ctx, "gateway order creation failed", "internal_order_id", internalID, "error", err)
		return nil, ErrGatewayUnavailable
	}

	o := &Order{
		InternalID:      internalID,
		ProviderOrderID: providerOrderID,
		Status:          StatusCreated,
		Cart:            in.Cart,
		Contact:         in.Contact,
		ShippingAddress: in.ShippingAddress,
		CouponCode:      strings.ToUpper(strings.TrimSpace(in.CouponCode)),
		Totals:          totals,
		Currency:        s.currency,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.store.Put(ctx, o); err != nil {
		// The gateway order exists but we have no record of it. Do not
		// pretend the checkout succeeded; the provider order expires
		// unpaid on its own.
		metric.OrdersCreatedTotal.WithLabelValues("store_error").Inc()
		slog.ErrorContext(ctx, "INVARIANT: order not persisted after gateway creation",
			"internal_order_id", internalID,
			"provider_order_id", providerOrderID,
			"error", err,
		)
		if errors.Is(err, ErrDuplicateOrder) {
			return nil, err
		}
		return nil, fmt.Errorf("order: persist %s: %w", internalID, err)
	}

	s.publish(ctx, events.RouteOrderCreated, map[string]any{
		"orderId":   o.InternalID,
		"amount":    o.Totals.FinalTotal,
		"currency":  o.Currency,
		"createdAt": o.CreatedAt,
	})

	metric.OrdersCreatedTotal.WithLabelValues("created").Inc()
	slog.InfoContext(ctx, "order created",
		"internal_order_id", internalID,
		"amount_minor", totals.AmountMinor,
		"coupon", o.CouponCode,
	)

	return &CreateOrderResult{
		OrderID:         o.InternalID,
		ProviderOrderID: o.ProviderOrderID,
		Amount:          totals.FinalTotal,
		Currency:        s.currency,
		KeyID:           s.keyID,
	}, nil
}

// VerifyPayment checks a claimed payment against the stored order and, on
// a valid signature, transitions it CREATED → PAID exactly once.
// Re-verifying an already paid order is a no-op success so that webhook
// redelivery and client confirmation can both land safely.
func (s *Service) VerifyPayment(ctx context.Context, internalID, providerOrderID, providerPaymentID, signature string) (*Order, error) {
	o, err := s.store.Get(ctx, internalID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			metric.VerificationsTotal.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	if o.ProviderOrderID != providerOrderID {
		metric.VerificationsTotal.WithLabelValues("mismatch").Inc()
		slog.WarnContext(ctx, "provider order id mismatch on verification", "internal_order_id", internalID)
		return nil, ErrOrderMismatch
	}

	if o.Status == StatusPaid {
		// Idempotent retry path. A different payment ID here is odd;
		// log it for security monitoring, but never re-verify or
		// overwrite the recorded payment.
		if o.ProviderPaymentID != providerPaymentID {
			slog.WarnContext(ctx, "already-paid order verified with different payment id",
				"internal_order_id", internalID)
		}
		metric.VerificationsTotal.WithLabelValues("replay").Inc()
		return o, nil
	}

	if o.Status.Terminal() {
		metric.VerificationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: order is %s", ErrTransitionConflict, o.Status)
	}

	if !razorpay.VerifySignature(providerOrderID, providerPaymentID, signature, s.keySecret) {
		// The order stays CREATED so a legitimate retry with a
		// corrected signature remains possible.
		metric.VerificationsTotal.WithLabelValues("bad_signature").Inc()
		slog.WarnContext(ctx, "payment signature verification failed", "internal_order_id", internalID)
		return nil, ErrInvalidSignature
	}

	paid, err := s.store.Transition(ctx, internalID, StatusCreated, StatusPaid, &PaymentRecord{
		ProviderPaymentID: providerPaymentID,
		PaymentSignature:  signature,
		PaidAt:            time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrTransitionConflict) {
			// Lost the race. If the winner marked it PAID this attempt
			// still counts as success.
			current, getErr := s.store.Get(ctx, internalID)
			if getErr == nil && current.Status == StatusPaid {
				metric.VerificationsTotal.WithLabelValues("replay").Inc()
				return current, nil
			}
		}
		metric.VerificationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	s.publish(ctx, events.RouteOrderPaid, map[string]any{
		"orderId":  paid.InternalID,
		"amount":   paid.Totals.FinalTotal,
		"currency": paid.Currency,
		"paidAt":   paid.PaidAt,
	})

	metric.VerificationsTotal.WithLabelValues("paid").Inc()
	slog.InfoContext(ctx, "order paid", "internal_order_id", internalID)
	return paid, nil
}

// CancelOrder moves a CREATED order to the terminal CANCELLED state.
func (s *Service) CancelOrder(ctx context.Context, internalID string) (*Order, error) {
	return s.store.Transition(ctx, internalID, StatusCreated, StatusCancelled, nil)
}

// GetOrder returns the stored order.
func (s *Service) GetOrder(ctx context.Context, internalID string) (*Order, error) {
	return s.store.Get(ctx, internalID)
}

// KeyID exposes the gateway's public key identifier for clients.
func (s *Service) KeyID() string {
	return s.keyID
}

// publish sends an event without blocking or failing the request. The
// context is detached so the publish is not cancelled when the HTTP
// response is sent.
func (s *Service) publish(ctx context.Context, routingKey string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	go func(ctx context.Context) {
		if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
			slog.ErrorContext(ctx, "event publish failed", "routing_key", routingKey, "error", err)
		}
	}(context.WithoutCancel(ctx))
}

// newOrderID generates a fresh internal order ID: namespace, year, and a
// 6-char uppercase hex suffix (24 bits of entropy from a v4 UUID).
func newOrderID() string {
	u := uuid.New()
	return fmt.Sprintf("VAYU-%d-%s", time.Now().Year(), strings.ToUpper(hex.EncodeToString(u[:3])))
}
