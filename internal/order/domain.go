// Package order owns the checkout order lifecycle: creation against the
// payment gateway, durable persistence, and cryptographic verification of
// payment callbacks. The Service here is the only component that mutates
// an Order; everything else goes through it.
package order

import (
	"time"

	"github.com/jcmexdev/vayu-checkout/internal/pricing"
)

// Status is the lifecycle state of an order.
//
// CREATED is the only non-terminal state. An order transitions exactly
// once to PAID (successful signature verification), FAILED (operator
// action) or CANCELLED (external cancellation) and is immutable after.
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusPaid      Status = "PAID"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusFailed || s == StatusCancelled
}

// CartItem is the client's view of a line item. UnitPrice is whatever the
// client claimed and is kept only for the audit snapshot; pricing never
// reads it.
type CartItem struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName,omitempty"`
	VariantID    string  `json:"variantId"`
	VariantLabel string  `json:"variantLabel,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice,omitempty"`
	Image        string  `json:"image,omitempty"`
}

// Cart is the snapshot of what the customer checked out.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Contact is the customer's contact snapshot.
type Contact struct {
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	EmailUpdates bool   `json:"emailUpdates,omitempty"`
}

// ShippingAddress is the delivery address snapshot.
type ShippingAddress struct {
	Country   string `json:"country"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	PIN       string `json:"pin"`
}

// Order is the durable record of a checkout attempt. The store is the
// single source of truth; a PAID row is the canonical evidence of a
// completed sale.
type Order struct {
	// InternalID is the human-traceable identifier, e.g. VAYU-2025-3F9A1C.
	// Never reused.
	InternalID string `json:"internal_order_id"`

	// ProviderOrderID is the opaque ID the payment gateway issued for
	// this order.
	ProviderOrderID string `json:"provider_order_id"`

	Status Status `json:"status"`

	Cart            Cart            `json:"cart"`
	Contact         Contact         `json:"contact"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	CouponCode      string          `json:"coupon_code,omitempty"`

	Totals   pricing.Totals `json:"totals"`
	Currency string         `json:"currency"`

	CreatedAt time.Time `json:"created_at"`

	// Set only once the order reaches PAID.
	ProviderPaymentID string     `json:"provider_payment_id,omitempty"`
	PaymentSignature  string     `json:"payment_signature,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
}
