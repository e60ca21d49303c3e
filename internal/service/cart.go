package service

import (
	"errors"

	"go-apotek-pos/internal/model"

	"github.com/google/uuid"
)

var (
	ErrQuantityNotPositive = errors.New("quantity must be greater than zero")
	ErrInsufficientStock   = errors.New("quantity exceeds available stock")
)

// CartLine is one aggregated line: quantity merged per product, subtotal
// always recomputed as quantity * unit price.
type CartLine struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   int64     `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	Subtotal    int64     `json:"subtotal"`

	// Stock known at add time; only enforced when the cart has a stock limit
	availableStock int
}

// Cart aggregates order lines for both the cashier flow and the purchase
// order item list. The cashier cart enforces the stock ceiling; the PO
// cart does not (replenishment is unbounded).
type Cart struct {
	lines      []CartLine
	limitStock bool
	total      int64
}

// NewCart returns an aggregator without a stock ceiling.
func NewCart() *Cart {
	return &Cart{}
}

// NewCartWithStockLimit returns an aggregator that rejects any line whose
// quantity would exceed the product's known stock.
func NewCartWithStockLimit() *Cart {
	return &Cart{limitStock: true}
}

// Add merges qty into the existing line for the product, or appends a new
// line priced at unitPrice. On rejection the cart is left untouched.
func (c *Cart) Add(product *model.Product, unitPrice int64, qty int) error {
	if qty <= 0 {
		return ErrQuantityNotPositive
	}

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			newQty := c.lines[i].Quantity + qty
			if c.limitStock && newQty > c.lines[i].availableStock {
				return ErrInsufficientStock
			}
			c.lines[i].Quantity = newQty
			c.recalc()
			return nil
		}
	}

	if c.limitStock && qty > product.Stock {
		return ErrInsufficientStock
	}

	c.lines = append(c.lines, CartLine{
		ProductID:      product.ID,
		ProductName:    product.Name,
		UnitPrice:      unitPrice,
		Quantity:       qty,
		availableStock: product.Stock,
	})
	c.recalc()
	return nil
}

// UpdateQuantity replaces a line's quantity. Zero or negative values are
// rejected; removal is explicit via Remove.
func (c *Cart) UpdateQuantity(productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return ErrQuantityNotPositive
	}
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if c.limitStock && qty > c.lines[i].availableStock {
				return ErrInsufficientStock
			}
			c.lines[i].Quantity = qty
			c.recalc()
			return nil
		}
	}
	return errors.New("product not in cart")
}

// Remove deletes the line entirely.
func (c *Cart) Remove(productID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			c.recalc()
			return
		}
	}
}

// recalc recomputes every subtotal and the grand total. Idempotent.
func (c *Cart) recalc() {
	var total int64
	for i := range c.lines {
		c.lines[i].Subtotal = int64(c.lines[i].Quantity) * c.lines[i].UnitPrice
		total += c.lines[i].Subtotal
	}
	c.total = total
}

func (c *Cart) Lines() []CartLine {
	return c.lines
}

func (c *Cart) Total() int64 {
	return c.total
}

func (c *Cart) Len() int {
	return len(c.lines)
}
