package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	catalog := DefaultCatalog()

	tests := []struct {
		name       string
		productID  string
		variantID  string
		quantity   int
		couponCode string
		want       Totals
		wantErr    error
	}{
		{
			name:      "base variant no coupon",
			productID: "vayu-ai-glasses",
			variantID: "non-prescription",
			quantity:  1,
			want: Totals{
				UnitPrice:   59999.0,
				Subtotal:    59999.0,
				FinalTotal:  59999.0,
				AmountMinor: 5999900,
			},
		},
		{
			name:      "prescription delta applied",
			productID: "vayu-ai-glasses",
			variantID: "prescription",
			quantity:  1,
			want: Totals{
				UnitPrice:   64999.0,
				Subtotal:    64999.0,
				FinalTotal:  64999.0,
				AmountMinor: 6499900,
			},
		},
		{
			name:       "launch coupon two units",
			productID:  "vayu-ai-glasses",
			variantID:  "non-prescription",
			quantity:   2,
			couponCode: "LAUNCH2025",
			want: Totals{
				UnitPrice:   59999.0,
				Subtotal:    119998.0,
				Discount:    11999.8,
				FinalTotal:  107998.2,
				AmountMinor: 10799820,
			},
		},
		{
			name:       "flat coupon",
			productID:  "vayu-ai-glasses",
			variantID:  "non-prescription",
			quantity:   1,
			couponCode: "VAYU5000",
			want: Totals{
				UnitPrice:   59999.0,
				Subtotal:    59999.0,
				Discount:    5000.0,
				FinalTotal:  54999.0,
				AmountMinor: 5499900,
			},
		},
		{
			name:       "coupon lookup trims and upcases",
			productID:  "vayu-ai-glasses",
			variantID:  "non-prescription",
			quantity:   1,
			couponCode: "  vayu5000 ",
			want: Totals{
				UnitPrice:   59999.0,
				Subtotal:    59999.0,
				Discount:    5000.0,
				FinalTotal:  54999.0,
				AmountMinor: 5499900,
			},
		},
		{
			name:      "unknown product",
			productID: "vayu-ai-hat",
			variantID: "non-prescription",
			quantity:  1,
			wantErr:   ErrUnknownProduct,
		},
		{
			name:      "unknown variant",
			productID: "vayu-ai-glasses",
			variantID: "bifocal",
			quantity:  1,
			wantErr:   ErrUnknownVariant,
		},
		{
			name:      "zero quantity",
			productID: "vayu-ai-glasses",
			variantID: "non-prescription",
			quantity:  0,
			wantErr:   ErrInvalidQuantity,
		},
		{
			name:      "quantity above max",
			productID: "vayu-ai-glasses",
			variantID: "non-prescription",
			quantity:  6,
			wantErr:   ErrInvalidQuantity,
		},
		{
			name:      "quantity at max",
			productID: "vayu-ai-glasses",
			variantID: "non-prescription",
			quantity:  5,
			want: Totals{
				UnitPrice:   59999.0,
				Subtotal:    299995.0,
				FinalTotal:  299995.0,
				AmountMinor: 29999500,
			},
		},
		{
			name:       "unknown coupon",
			productID:  "vayu-ai-glasses",
			variantID:  "non-prescription",
			quantity:   1,
			couponCode: "FREESTUFF",
			wantErr:    ErrInvalidCoupon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := catalog.Quote(tt.productID, tt.variantID, tt.quantity, tt.couponCode)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteDeterministic(t *testing.T) {
	catalog := DefaultCatalog()

	first, err := catalog.Quote("vayu-ai-glasses", "prescription", 3, "LAUNCH2025")
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		got, err := catalog.Quote("vayu-ai-glasses", "prescription", 3, "LAUNCH2025")
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestDiscountNeverExceedsSubtotal(t *testing.T) {
	// A subtotal below the flat coupon value must clamp the discount.
	catalog, err := NewCatalog(map[string]Product{
		"cheap-thing": {
			Name:      "Cheap Thing",
			BasePrice: 999.0,
			Variants: map[string]Variant{
				"default": {Label: "Default"},
			},
			MaxQuantity: 2,
		},
	})
	require.NoError(t, err)

	got, err := catalog.Quote("cheap-thing", "default", 1, "VAYU5000")
	require.NoError(t, err)

	assert.Equal(t, 999.0, got.Discount)
	assert.Equal(t, 0.0, got.FinalTotal)
	assert.Equal(t, int64(0), got.AmountMinor)
	assert.GreaterOrEqual(t, got.Discount, 0.0)
	assert.LessOrEqual(t, got.Discount, got.Subtotal)
}

func TestTotalsInvariant(t *testing.T) {
	catalog := DefaultCatalog()

	for _, coupon := range []string{"", "LAUNCH2025", "VAYU5000"} {
		for qty := 1; qty <= 5; qty++ {
			got, err := catalog.Quote("vayu-ai-glasses", "prescription", qty, coupon)
			require.NoError(t, err)
			assert.InDelta(t, got.Subtotal-got.Discount+got.Shipping, got.FinalTotal, 1e-9)
		}
	}
}

func TestNewCatalogRejectsNegativeUnitPrice(t *testing.T) {
	_, err := NewCatalog(map[string]Product{
		"broken": {
			BasePrice: 100,
			Variants: map[string]Variant{
				"bad": {PriceDelta: -200},
			},
			MaxQuantity: 1,
		},
	})
	assert.Error(t, err)
}
