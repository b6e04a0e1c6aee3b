package order

import (
	"context"
	"time"
)

// PaymentRecord carries the fields written alongside a successful
// CREATED → PAID transition.
type PaymentRecord struct {
	ProviderPaymentID string
	PaymentSignature  string
	PaidAt            time.Time
}

// Store is durable keyed storage for orders, addressed by internal ID.
//
// Transition is the single serialization point for concurrent
// verification attempts: implementations must perform the status check
// and update atomically (a conditional UPDATE, or a lock held across the
// read-modify-write). Contention is per order key; no global lock.
type Store interface {
	// Put inserts a new order. Returns ErrDuplicateOrder if the
	// internal ID already exists.
	Put(ctx context.Context, o *Order) error

	// Get returns the order or ErrOrderNotFound.
	Get(ctx context.Context, internalID string) (*Order, error)

	// Transition atomically moves the order from the expected status to
	// the new one, recording payment details when provided. Returns the
	// updated order, ErrOrderNotFound if the ID is unknown, or
	// ErrTransitionConflict if the stored status differs from `from`.
	Transition(ctx context.Context, internalID string, from, to Status, payment *PaymentRecord) (*Order, error)
}

// Gateway creates orders with the external payment provider. The real
// implementation lives in internal/razorpay; the interface is here so the
// service can be tested without network access.
type Gateway interface {
	// CreateOrder registers an order for the given minor-unit amount
	// and returns the provider's opaque order ID.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error)
}
