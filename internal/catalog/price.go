package catalog

import (
	"strings"

	"nesswear/internal/domain"

	"github.com/shopspring/decimal"
)

// MaxPrice is the ceiling of the highest price in products, or fallback
// when there are no products or every price is zero.
func MaxPrice(products []domain.Product, fallback decimal.Decimal) decimal.Decimal {
	if len(products) == 0 {
		return fallback
	}

	top := decimal.Zero
	for _, p := range products {
		if p.Price.GreaterThan(top) {
			top = p.Price
		}
	}

	top = top.Ceil()
	if top.IsZero() {
		return fallback
	}
	return top
}

// PriceRangeControl backs a price slider. Its maximum follows the loaded
// product set, and whenever that set changes the selected upper bound is
// reset to the new maximum.
type PriceRangeControl struct {
	fallback  decimal.Decimal
	max       decimal.Decimal
	selected  PriceRange
	signature string
	synced    bool
}

// NewPriceRangeControl starts at [0, fallback]
func NewPriceRangeControl(fallback decimal.Decimal) *PriceRangeControl {
	return &PriceRangeControl{
		fallback: fallback,
		max:      fallback,
		selected: PriceRange{Min: decimal.Zero, Max: fallback},
	}
}

// Sync recomputes the maximum from products. It reports whether the product
// set differed from the last one seen; only then is the selection reset.
func (c *PriceRangeControl) Sync(products []domain.Product) bool {
	sig := productSignature(products)
	if c.synced && sig == c.signature {
		return false
	}

	c.synced = true
	c.signature = sig
	c.max = MaxPrice(products, c.fallback)
	c.selected = PriceRange{Min: decimal.Zero, Max: c.max}
	return true
}

// Select sets the chosen range. Negative bounds are raised to zero. A
// minimum above the maximum is kept and yields an empty result.
func (c *PriceRangeControl) Select(min, max decimal.Decimal) {
	c.selected = PriceRange{Min: decimal.Max(min, decimal.Zero), Max: decimal.Max(max, decimal.Zero)}
}

// Max is the selectable upper limit
func (c *PriceRangeControl) Max() decimal.Decimal {
	return c.max
}

// Range is the currently selected interval
func (c *PriceRangeControl) Range() PriceRange {
	return c.selected
}

func productSignature(products []domain.Product) string {
	var b strings.Builder
	for _, p := range products {
		b.WriteString(p.ID)
		b.WriteByte('=')
		b.WriteString(p.Price.String())
		b.WriteByte(';')
	}
	return b.String()
}
