package service

import (
	"testing"

	"go-apotek-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(name string, stock int, sellPrice int64) *model.Product {
	p := &model.Product{
		Name:      name,
		Stock:     stock,
		SellPrice: sellPrice,
	}
	p.ID = uuid.New()
	return p
}

func TestCartAddMergesSameProduct(t *testing.T) {
	// Product A: stock 10, price 5000
	productA := testProduct("Product A", 10, 5000)
	cart := NewCartWithStockLimit()

	// Add qty 3 -> total 15000
	require.NoError(t, cart.Add(productA, productA.SellPrice, 3))
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, int64(15000), cart.Total())

	// Add qty 4 more of the same product -> quantity 7, total 35000
	require.NoError(t, cart.Add(productA, productA.SellPrice, 4))
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, 7, cart.Lines()[0].Quantity)
	assert.Equal(t, int64(35000), cart.Total())

	// Add qty 5 more -> would be 12 > stock 10, rejected, cart unchanged
	err := cart.Add(productA, productA.SellPrice, 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 7, cart.Lines()[0].Quantity)
	assert.Equal(t, int64(35000), cart.Total())
}

func TestCartRejectsNonPositiveQuantity(t *testing.T) {
	product := testProduct("Paracetamol", 20, 2500)
	cart := NewCartWithStockLimit()

	assert.ErrorIs(t, cart.Add(product, product.SellPrice, 0), ErrQuantityNotPositive)
	assert.ErrorIs(t, cart.Add(product, product.SellPrice, -2), ErrQuantityNotPositive)
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, int64(0), cart.Total())
}

func TestCartTotalIsSumOfLineSubtotals(t *testing.T) {
	p1 := testProduct("P1", 100, 1000)
	p2 := testProduct("P2", 100, 3000)
	cart := NewCartWithStockLimit()

	require.NoError(t, cart.Add(p1, p1.SellPrice, 2))
	require.NoError(t, cart.Add(p2, p2.SellPrice, 1))

	assert.Equal(t, int64(5000), cart.Total())
	var sum int64
	for _, line := range cart.Lines() {
		assert.Equal(t, int64(line.Quantity)*line.UnitPrice, line.Subtotal)
		sum += line.Subtotal
	}
	assert.Equal(t, sum, cart.Total())

	// Recomputing again is idempotent
	cart.recalc()
	assert.Equal(t, sum, cart.Total())
}

func TestCartWithoutStockLimitAllowsOverstock(t *testing.T) {
	// Purchase order carts have no ceiling: replenishment is unbounded
	product := testProduct("Amoxicillin", 3, 7000)
	cart := NewCart()

	require.NoError(t, cart.Add(product, 4000, 500))
	assert.Equal(t, 500, cart.Lines()[0].Quantity)
	assert.Equal(t, int64(2000000), cart.Total())
}

func TestCartRemoveDeletesLine(t *testing.T) {
	p1 := testProduct("P1", 50, 1000)
	p2 := testProduct("P2", 50, 2000)
	cart := NewCartWithStockLimit()

	require.NoError(t, cart.Add(p1, p1.SellPrice, 2))
	require.NoError(t, cart.Add(p2, p2.SellPrice, 3))
	require.Equal(t, int64(8000), cart.Total())

	cart.Remove(p1.ID)
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, int64(6000), cart.Total())

	// Removing an absent product is a no-op
	cart.Remove(p1.ID)
	assert.Equal(t, 1, cart.Len())
}

func TestCartUpdateQuantity(t *testing.T) {
	product := testProduct("Vitamin C", 10, 1500)
	cart := NewCartWithStockLimit()
	require.NoError(t, cart.Add(product, product.SellPrice, 2))

	require.NoError(t, cart.UpdateQuantity(product.ID, 8))
	assert.Equal(t, int64(12000), cart.Total())

	assert.ErrorIs(t, cart.UpdateQuantity(product.ID, 11), ErrInsufficientStock)
	assert.ErrorIs(t, cart.UpdateQuantity(product.ID, 0), ErrQuantityNotPositive)
	assert.Equal(t, 8, cart.Lines()[0].Quantity)

	assert.Error(t, cart.UpdateQuantity(uuid.New(), 1))
}

func TestCartMergeKeepsOriginalUnitPrice(t *testing.T) {
	product := testProduct("Ibuprofen", 30, 4000)
	cart := NewCartWithStockLimit()

	require.NoError(t, cart.Add(product, 4000, 1))
	// Price change between adds does not reprice the existing line
	require.NoError(t, cart.Add(product, 9999, 1))

	assert.Equal(t, int64(4000), cart.Lines()[0].UnitPrice)
	assert.Equal(t, int64(8000), cart.Total())
}
