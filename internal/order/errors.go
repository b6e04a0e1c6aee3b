package order

import "errors"

// Sentinel errors returned by the Service and Store. Handlers map these to
// HTTP statuses; anything not in this list is treated as an internal error
// and surfaced generically.
var (
	// ErrEmptyCart means the request carried no line items.
	ErrEmptyCart = errors.New("order: cart is empty")

	// ErrOrderNotFound means no order exists for the given internal ID.
	ErrOrderNotFound = errors.New("order: order not found")

	// ErrDuplicateOrder means an insert collided with an existing
	// internal ID. Callers may retry with a fresh ID.
	ErrDuplicateOrder = errors.New("order: duplicate order id")

	// ErrOrderMismatch means the provider order ID presented for
	// verification does not belong to the stored order. Guards against
	// replaying a valid signature against a different order.
	ErrOrderMismatch = errors.New("order: provider order id mismatch")

	// ErrInvalidSignature means the payment signature did not verify.
	// The message is deliberately non-descriptive; the expected
	// signature is never echoed anywhere.
	ErrInvalidSignature = errors.New("order: invalid payment signature")

	// ErrTransitionConflict means a compare-and-swap transition found
	// the order in a different state than expected.
	ErrTransitionConflict = errors.New("order: conflicting status transition")

	// ErrGatewayUnavailable means the payment gateway call failed.
	// Provider details are logged server-side only.
	ErrGatewayUnavailable = errors.New("order: payment provider unavailable")
)
