package catalog

import (
	"testing"

	"nesswear/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func priced(prices ...string) []domain.Product {
	out := make([]domain.Product, len(prices))
	for i, p := range prices {
		out[i] = domain.Product{ID: p, Price: decimal.RequireFromString(p)}
	}
	return out
}

func TestMaxPrice(t *testing.T) {
	fallback := decimal.NewFromInt(200)

	assert.True(t, MaxPrice(nil, fallback).Equal(fallback))
	assert.True(t, MaxPrice(priced("0", "0"), fallback).Equal(fallback))
	assert.True(t, MaxPrice(priced("10", "149.01", "20"), fallback).Equal(decimal.NewFromInt(150)))
	assert.True(t, MaxPrice(priced("75"), fallback).Equal(decimal.NewFromInt(75)))
	assert.True(t, MaxPrice(priced("0.2"), fallback).Equal(decimal.NewFromInt(1)))
}

func TestPriceRangeControl_ResetsUpperBoundOnNewProducts(t *testing.T) {
	ctrl := NewPriceRangeControl(decimal.NewFromInt(100))
	assert.True(t, ctrl.Max().Equal(decimal.NewFromInt(100)))

	assert.True(t, ctrl.Sync(priced("10", "40")))
	assert.True(t, ctrl.Max().Equal(decimal.NewFromInt(40)))
	assert.True(t, ctrl.Range().Max.Equal(decimal.NewFromInt(40)))

	ctrl.Select(decimal.NewFromInt(5), decimal.NewFromInt(20))
	assert.False(t, ctrl.Sync(priced("10", "40")), "unchanged set keeps the selection")
	assert.True(t, ctrl.Range().Max.Equal(decimal.NewFromInt(20)))

	// a refetch brings in a higher priced product
	assert.True(t, ctrl.Sync(priced("10", "40", "120.5")))
	assert.True(t, ctrl.Max().Equal(decimal.NewFromInt(121)))
	assert.True(t, ctrl.Range().Min.IsZero())
	assert.True(t, ctrl.Range().Max.Equal(decimal.NewFromInt(121)))

	assert.True(t, ctrl.Sync(nil))
	assert.True(t, ctrl.Max().Equal(decimal.NewFromInt(100)))
}

func TestPriceRangeControl_Select(t *testing.T) {
	ctrl := NewPriceRangeControl(decimal.NewFromInt(200))

	ctrl.Select(decimal.NewFromInt(-5), decimal.NewFromInt(50))
	assert.True(t, ctrl.Range().Min.IsZero())
	assert.True(t, ctrl.Range().Max.Equal(decimal.NewFromInt(50)))

	ctrl.Select(decimal.NewFromInt(60), decimal.NewFromInt(50))
	assert.Empty(t, Run(priced("55"), QuerySpec{PriceRange: &PriceRange{Min: ctrl.Range().Min, Max: ctrl.Range().Max}}))
}
