package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrUnknownProduct  = errors.New("pricing: unknown product")
	ErrUnknownVariant  = errors.New("pricing: unknown variant")
	ErrInvalidQuantity = errors.New("pricing: invalid quantity")
	ErrInvalidCoupon   = errors.New("pricing: invalid coupon code")
)

// Totals is the computed price breakdown for an order. All amounts are in
// major currency units except AmountMinor, which is the paise value the
// payment gateway bills.
//
// Invariant: FinalTotal = Subtotal - Discount + Shipping, and
// AmountMinor = round(FinalTotal * 100). Rounding is half-away-from-zero
// (math.Round); at most one paisa of difference versus half-to-even, and
// the choice matches what the gateway has billed since launch.
type Totals struct {
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	Shipping    float64 `json:"shipping"`
	FinalTotal  float64 `json:"final_total"`
	AmountMinor int64   `json:"amount_minor"`
}

// Quote computes canonical order totals. Pure: same inputs always produce
// the same Totals. couponCode may be empty for no discount.
func (c *Catalog) Quote(productID, variantID string, quantity int, couponCode string) (Totals, error) {
	product, ok := c.products[productID]
	if !ok {
		return Totals{}, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}
	if quantity < 1 || quantity > product.MaxQuantity {
		return Totals{}, fmt.Errorf("%w: quantity must be between 1 and %d", ErrInvalidQuantity, product.MaxQuantity)
	}
	variant, ok := product.Variants[variantID]
	if !ok {
		return Totals{}, fmt.Errorf("%w: %s for product %s", ErrUnknownVariant, variantID, productID)
	}

	unitPrice := product.BasePrice + variant.PriceDelta
	subtotal := unitPrice * float64(quantity)

	discount, err := applyCoupon(subtotal, couponCode)
	if err != nil {
		return Totals{}, err
	}

	// Shipping is free for now.
	const shipping = 0.0
	total := subtotal - discount + shipping

	return Totals{
		UnitPrice:   unitPrice,
		Subtotal:    subtotal,
		Discount:    discount,
		Shipping:    shipping,
		FinalTotal:  total,
		AmountMinor: int64(math.Round(total * 100)),
	}, nil
}

// applyCoupon returns the discount for the given subtotal. Codes are
// matched case-insensitively after trimming whitespace. The discount is
// always within [0, subtotal].
func applyCoupon(subtotal float64, code string) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, nil
	}

	switch code {
	case "LAUNCH2025":
		// 10% off, rounded to 2 decimals.
		return math.Round(subtotal*0.10*100) / 100, nil
	case "VAYU5000":
		// Flat 5,000 off, never more than the subtotal itself.
		return math.Min(5000.0, subtotal), nil
	}

	return 0, fmt.Errorf("%w: %s", ErrInvalidCoupon, code)
}
