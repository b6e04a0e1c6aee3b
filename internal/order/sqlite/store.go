// Package sqlite provides the durable SQLite-backed order.Store.
//
// WAL mode is enabled on Open so that reads (status lookups) never block
// the writes happening in verification handlers. A PAID row in this
// database is the canonical evidence of a completed sale, so every write
// path goes through a single conditional statement, leaving no
// read-modify-write window for concurrent verifications to slip through.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jcmexdev/vayu-checkout/internal/order"
	"github.com/jcmexdev/vayu-checkout/internal/pricing"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// which keeps Alpine/Docker builds trivial.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
    -- Internal order ID, e.g. VAYU-2025-3F9A1C. Never reused.
    internal_order_id   TEXT PRIMARY KEY,

    -- Opaque order ID issued by the payment gateway.
    provider_order_id   TEXT NOT NULL,

    -- CREATED, PAID, FAILED or CANCELLED.
    status              TEXT NOT NULL,

    -- Request snapshots, stored as JSON documents.
    cart_json           TEXT NOT NULL,
    contact_json        TEXT NOT NULL,
    shipping_json       TEXT NOT NULL,

    coupon_code         TEXT NOT NULL DEFAULT '',

    -- Computed totals. Major units except amount_minor (paise).
    unit_price          REAL NOT NULL,
    subtotal            REAL NOT NULL,
    discount            REAL NOT NULL DEFAULT 0,
    shipping_cost       REAL NOT NULL DEFAULT 0,
    total_amount        REAL NOT NULL,
    amount_minor        INTEGER NOT NULL,
    currency            TEXT NOT NULL,

    created_at          TEXT NOT NULL,

    -- Populated by the CREATED -> PAID transition only.
    provider_payment_id TEXT,
    payment_signature   TEXT,
    paid_at             TEXT
);

CREATE INDEX IF NOT EXISTS idx_orders_provider_order_id ON orders(provider_order_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
`

// Store is the SQLite implementation of order.Store.
type Store struct {
	db *sql.DB
}

var _ order.Store = (*Store)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Put(ctx context.Context, o *order.Order) error {
	cartJSON, contactJSON, shippingJSON, err := marshalSnapshots(o)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO orders
			(internal_order_id, provider_order_id, status,
			 cart_json, contact_json, shipping_json, coupon_code,
			 unit_price, subtotal, discount, shipping_cost, total_amount,
			 amount_minor, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (internal_order_id) DO NOTHING`

	res, err := s.db.ExecContext(ctx, q,
		o.InternalID, o.ProviderOrderID, string(o.Status),
		cartJSON, contactJSON, shippingJSON, o.CouponCode,
		o.Totals.UnitPrice, o.Totals.Subtotal, o.Totals.Discount,
		o.Totals.Shipping, o.Totals.FinalTotal,
		o.Totals.AmountMinor, o.Currency, formatTime(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert order %q: %w", o.InternalID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: insert order %q: rows affected: %w", o.InternalID, err)
	}
	if n == 0 {
		return order.ErrDuplicateOrder
	}
	return nil
}

func (s *Store) Get(ctx context.Context, internalID string) (*order.Order, error) {
	const q = `
		SELECT internal_order_id, provider_order_id, status,
		       cart_json, contact_json, shipping_json, coupon_code,
		       unit_price, subtotal, discount, shipping_cost, total_amount,
		       amount_minor, currency, created_at,
		       COALESCE(provider_payment_id, ''), COALESCE(payment_signature, ''),
		       COALESCE(paid_at, '')
		FROM   orders
		WHERE  internal_order_id = ?`

	return scanOrder(s.db.QueryRowContext(ctx, q, internalID))
}

// Transition performs the compare-and-swap as a single conditional
// UPDATE; RowsAffected tells us whether the expected status matched.
// Whatever races us, at most one UPDATE can move an order out of `from`.
func (s *Store) Transition(ctx context.Context, internalID string, from, to order.Status, payment *order.PaymentRecord) (*order.Order, error) {
	var (
		res sql.Result
		err error
	)
	if payment != nil {
		const q = `
			UPDATE orders
			SET    status = ?, provider_payment_id = ?, payment_signature = ?, paid_at = ?
			WHERE  internal_order_id = ? AND status = ?`
		res, err = s.db.ExecContext(ctx, q,
			string(to), payment.ProviderPaymentID, payment.PaymentSignature,
			formatTime(payment.PaidAt), internalID, string(from),
		)
	} else {
		const q = `
			UPDATE orders
			SET    status = ?
			WHERE  internal_order_id = ? AND status = ?`
		res, err = s.db.ExecContext(ctx, q, string(to), internalID, string(from))
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: transition %q %s->%s: %w", internalID, from, to, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: transition %q: rows affected: %w", internalID, err)
	}
	if n == 0 {
		// Either the order does not exist or its status changed under
		// us. Distinguish so callers can handle the race correctly.
		if _, getErr := s.Get(ctx, internalID); getErr != nil {
			return nil, getErr
		}
		return nil, order.ErrTransitionConflict
	}

	return s.Get(ctx, internalID)
}

func marshalSnapshots(o *order.Order) (cart, contact, shipping string, err error) {
	c, err := json.Marshal(o.Cart)
	if err != nil {
		return "", "", "", fmt.Errorf("sqlite: marshal cart: %w", err)
	}
	ct, err := json.Marshal(o.Contact)
	if err != nil {
		return "", "", "", fmt.Errorf("sqlite: marshal contact: %w", err)
	}
	sh, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return "", "", "", fmt.Errorf("sqlite: marshal shipping address: %w", err)
	}
	return string(c), string(ct), string(sh), nil
}

func scanOrder(row *sql.Row) (*order.Order, error) {
	var o order.Order
	var totals pricing.Totals
	var status, cartJSON, contactJSON, shipJSON string
	var createdAt, paidAt, providerPaymentID, paymentSig string

	err := row.Scan(
		&o.InternalID, &o.ProviderOrderID, &status,
		&cartJSON, &contactJSON, &shipJSON, &o.CouponCode,
		&totals.UnitPrice, &totals.Subtotal, &totals.Discount,
		&totals.Shipping, &totals.FinalTotal,
		&totals.AmountMinor, &o.Currency, &createdAt,
		&providerPaymentID, &paymentSig, &paidAt,
	)
	if err == sql.ErrNoRows {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan order: %w", err)
	}

	o.Status = order.Status(status)
	o.Totals = totals
	o.ProviderPaymentID = providerPaymentID
	o.PaymentSignature = paymentSig

	if err := json.Unmarshal([]byte(cartJSON), &o.Cart); err != nil {
		return nil, fmt.Errorf("sqlite: unmarshal cart for %q: %w", o.InternalID, err)
	}
	if err := json.Unmarshal([]byte(contactJSON), &o.Contact); err != nil {
		return nil, fmt.Errorf("sqlite: unmarshal contact for %q: %w", o.InternalID, err)
	}
	if err := json.Unmarshal([]byte(shipJSON), &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("sqlite: unmarshal shipping address for %q: %w", o.InternalID, err)
	}

	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if paidAt != "" {
		t, err := parseTime(paidAt)
		if err != nil {
			return nil, err
		}
		o.PaidAt = &t
	}

	return &o, nil
}

const timeLayout = "2006-01-02T15:04:05.999999999Z"

// formatTime stores timestamps as RFC3339 TEXT, the SQLite idiom.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse timestamp %q: %w", s, err)
	}
	return t, nil
}
