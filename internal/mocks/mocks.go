// Package mocks holds testify mocks for the order service collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jcmexdev/vayu-checkout/internal/order"
)

type MockStore struct {
	mock.Mock
}

var _ order.Store = (*MockStore)(nil)

func (m *MockStore) Put(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, internalID string) (*order.Order, error) {
	args := m.Called(ctx, internalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockStore) Transition(ctx context.Context, internalID string, from, to order.Status, payment *order.PaymentRecord) (*order.Order, error) {
	args := m.Called(ctx, internalID, from, to, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

var _ order.Gateway = (*MockGateway)(nil)

func (m *MockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error) {
	args := m.Called(ctx, amountMinor, currency, receipt, notes)
	return args.String(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}
