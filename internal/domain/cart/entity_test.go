// internal/domain/cart/entity_test.go
package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/pharmacy-backend/internal/domain/catalog"
)

func testProduct() *catalog.Product {
	return &catalog.Product{
		ID:        1,
		Name:      "Paracetamol 500mg",
		Slug:      "paracetamol-500mg",
		IsVisible: true,
	}
}

func testVariant() *catalog.Variant {
	return &catalog.Variant{
		ID:               10,
		ProductID:        1,
		SKU:              "MED-000001-V1",
		PackSize:         "15 tablets",
		Price:            decimal.RequireFromString("35.00"),
		IsStockAvailable: true,
		MinOrderQuantity: 1,
		MaxOrderQuantity: 10,
	}
}

func TestUpsertLine_AddsNewLine(t *testing.T) {
	c := &Cart{Status: CartStatusActive}

	err := c.UpsertLine(testProduct(), testVariant(), 2)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)

	line := c.Lines[0]
	assert.Equal(t, uint(1), line.ProductID)
	assert.Equal(t, uint(10), line.VariantID)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, "Paracetamol 500mg", line.ProductSnapshot.Name)
	assert.True(t, line.VariantSnapshot.Price.Equal(decimal.RequireFromString("35.00")))
}

func TestUpsertLine_OverwritesQuantityKeepsSnapshot(t *testing.T) {
	c := &Cart{Status: CartStatusActive}
	require.NoError(t, c.UpsertLine(testProduct(), testVariant(), 2))

	// The catalog price changed between adds
	changed := testVariant()
	changed.Price = decimal.RequireFromString("99.00")

	require.NoError(t, c.UpsertLine(testProduct(), changed, 5))
	require.Len(t, c.Lines, 1)

	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.True(t, c.Lines[0].VariantSnapshot.Price.Equal(decimal.RequireFromString("35.00")),
		"snapshot must keep the add-time price")
}

func TestUpsertLine_UnavailableItem(t *testing.T) {
	c := &Cart{Status: CartStatusActive}

	outOfStock := testVariant()
	outOfStock.IsStockAvailable = false
	assert.ErrorIs(t, c.UpsertLine(testProduct(), outOfStock, 1), ErrItemUnavailable)

	unpriced := testVariant()
	unpriced.Price = decimal.Zero
	assert.ErrorIs(t, c.UpsertLine(testProduct(), unpriced, 1), ErrItemUnavailable)

	hidden := testProduct()
	hidden.IsVisible = false
	assert.ErrorIs(t, c.UpsertLine(hidden, testVariant(), 1), ErrItemUnavailable)

	assert.True(t, c.IsEmpty())
}

func TestUpsertLine_QuantityBounds(t *testing.T) {
	c := &Cart{Status: CartStatusActive}
	v := testVariant()

	assert.ErrorIs(t, c.UpsertLine(testProduct(), v, 0), ErrQuantityOutOfRange)
	assert.ErrorIs(t, c.UpsertLine(testProduct(), v, 11), ErrQuantityOutOfRange)
	assert.NoError(t, c.UpsertLine(testProduct(), v, 10))
}

func TestAddLine_RefusesDuplicate(t *testing.T) {
	c := &Cart{Status: CartStatusActive}
	require.NoError(t, c.AddLine(testProduct(), testVariant(), 1))

	err := c.AddLine(testProduct(), testVariant(), 3)
	assert.ErrorIs(t, err, ErrDuplicateItem)
	assert.Equal(t, 1, c.Lines[0].Quantity)
}

func TestRemoveLine(t *testing.T) {
	c := &Cart{Status: CartStatusActive}
	require.NoError(t, c.UpsertLine(testProduct(), testVariant(), 1))
	c.Lines[0].ID = 77

	assert.ErrorIs(t, c.RemoveLine(99), ErrLineNotFound)
	assert.NoError(t, c.RemoveLine(77))
	assert.True(t, c.IsEmpty())
}

func TestRequiresPrescription(t *testing.T) {
	c := &Cart{Status: CartStatusActive}
	require.NoError(t, c.UpsertLine(testProduct(), testVariant(), 1))
	assert.False(t, c.RequiresPrescription())

	rx := testProduct()
	rx.ID = 2
	rx.IsPrescriptionRequired = true
	rxVariant := testVariant()
	rxVariant.ID = 20
	rxVariant.ProductID = 2

	require.NoError(t, c.UpsertLine(rx, rxVariant, 1))
	assert.True(t, c.RequiresPrescription())
}

func TestVariantSnapshot_EffectiveBase(t *testing.T) {
	snap := VariantSnapshot{
		Price:     decimal.RequireFromString("120.00"),
		SalePrice: decimal.RequireFromString("98.00"),
	}
	assert.True(t, snap.EffectiveBase().Equal(decimal.RequireFromString("98.00")))

	snap.SalePrice = decimal.Zero
	assert.True(t, snap.EffectiveBase().Equal(decimal.RequireFromString("120.00")))
}
