package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowlist(t *testing.T) {
	ctx := context.Background()

	t.Run("open by default", func(t *testing.T) {
		p := NewAllowlist(nil, false)
		assert.NoError(t, p.Allow(ctx, "anyone@example.com"))
		assert.NoError(t, p.Allow(ctx, ""))
	})

	t.Run("closed beta admits admins only", func(t *testing.T) {
		p := NewAllowlist([]string{"Founder@vayu.example", " ops@vayu.example "}, true)

		assert.NoError(t, p.Allow(ctx, "founder@vayu.example"))
		assert.NoError(t, p.Allow(ctx, "OPS@VAYU.EXAMPLE"))
		assert.ErrorIs(t, p.Allow(ctx, "stranger@example.com"), ErrNotEntitled)
		assert.ErrorIs(t, p.Allow(ctx, ""), ErrNotEntitled)
	})
}
