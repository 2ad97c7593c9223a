// internal/domain/catalog/entity_test.go
package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveBase(t *testing.T) {
	v := Variant{
		Price:     decimal.RequireFromString("120.00"),
		SalePrice: decimal.RequireFromString("98.00"),
	}
	assert.True(t, v.EffectiveBase().Equal(decimal.RequireFromString("98.00")))

	v.SalePrice = decimal.Zero
	assert.True(t, v.EffectiveBase().Equal(decimal.RequireFromString("120.00")))
}

func TestIsPurchasable(t *testing.T) {
	v := Variant{Price: decimal.RequireFromString("35.00"), IsStockAvailable: true}
	assert.True(t, v.IsPurchasable())

	v.IsStockAvailable = false
	assert.False(t, v.IsPurchasable())

	v.IsStockAvailable = true
	v.Price = decimal.Zero
	assert.False(t, v.IsPurchasable())
}

func TestFindVariant(t *testing.T) {
	p := Product{
		ID: 1,
		Variants: []Variant{
			{ID: 10, ProductID: 1},
			{ID: 11, ProductID: 1},
		},
	}

	v := p.FindVariant(11)
	require.NotNil(t, v)
	assert.Equal(t, uint(11), v.ID)

	assert.Nil(t, p.FindVariant(99))
}
