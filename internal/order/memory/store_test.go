package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/vayu-checkout/internal/order"
)

func testOrder(id string) *order.Order {
	return &order.Order{
		InternalID:      id,
		ProviderOrderID: "order_" + id,
		Status:          order.StatusCreated,
		Currency:        "INR",
		CreatedAt:       time.Now().UTC(),
	}
}

func TestPutAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testOrder("VAYU-2025-000001")))

	got, err := s.Get(ctx, "VAYU-2025-000001")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCreated, got.Status)

	_, err = s.Get(ctx, "VAYU-2025-MISSING")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestPutDuplicate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testOrder("VAYU-2025-000001")))
	assert.ErrorIs(t, s.Put(ctx, testOrder("VAYU-2025-000001")), order.ErrDuplicateOrder)
}

func TestGetReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testOrder("VAYU-2025-000001")))

	got, err := s.Get(ctx, "VAYU-2025-000001")
	require.NoError(t, err)
	got.Status = order.StatusFailed

	again, err := s.Get(ctx, "VAYU-2025-000001")
	require.NoError(t, err)
	assert.Equal(t, order.StatusCreated, again.Status)
}

func TestTransition(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testOrder("VAYU-2025-000001")))

	paidAt := time.Now().UTC()
	got, err := s.Transition(ctx, "VAYU-2025-000001", order.StatusCreated, order.StatusPaid, &order.PaymentRecord{
		ProviderPaymentID: "pay_123",
		PaymentSignature:  "cafe",
		PaidAt:            paidAt,
	})
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, got.Status)
	assert.Equal(t, "pay_123", got.ProviderPaymentID)
	require.NotNil(t, got.PaidAt)
	assert.Equal(t, paidAt, *got.PaidAt)

	// Terminal: a second CAS from CREATED must conflict.
	_, err = s.Transition(ctx, "VAYU-2025-000001", order.StatusCreated, order.StatusPaid, nil)
	assert.ErrorIs(t, err, order.ErrTransitionConflict)

	_, err = s.Transition(ctx, "VAYU-2025-MISSING", order.StatusCreated, order.StatusPaid, nil)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestTransitionRace(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testOrder("VAYU-2025-000001")))

	const racers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Transition(ctx, "VAYU-2025-000001", order.StatusCreated, order.StatusPaid, &order.PaymentRecord{
				ProviderPaymentID: "pay_123",
				PaidAt:            time.Now().UTC(),
			})
			if err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1, "exactly one transition must win")
}
