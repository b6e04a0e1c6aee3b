// Package memory is an in-memory order.Store for development and tests.
//
// It is NOT durable: a process restart loses every order, including PAID
// ones, so it must never back a production deployment. The production
// store is internal/order/sqlite.
package memory

import (
	"context"
	"sync"

	"github.com/jcmexdev/vayu-checkout/internal/order"
)

// Store keeps orders in a map guarded by a mutex. The mutex is held
// across the whole Transition read-check-write, which gives the same
// atomicity as the SQL store's conditional UPDATE.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
}

var _ order.Store = (*Store)(nil)

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{orders: make(map[string]*order.Order)}
}

func (s *Store) Put(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.InternalID]; exists {
		return order.ErrDuplicateOrder
	}
	cp := *o
	s.orders[o.InternalID] = &cp
	return nil
}

func (s *Store) Get(_ context.Context, internalID string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[internalID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *Store) Transition(_ context.Context, internalID string, from, to order.Status, payment *order.PaymentRecord) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[internalID]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if o.Status != from {
		return nil, order.ErrTransitionConflict
	}

	o.Status = to
	if payment != nil {
		o.ProviderPaymentID = payment.ProviderPaymentID
		o.PaymentSignature = payment.PaymentSignature
		paidAt := payment.PaidAt
		o.PaidAt = &paidAt
	}

	cp := *o
	return &cp, nil
}
