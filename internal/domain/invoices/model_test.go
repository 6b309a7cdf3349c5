package invoices

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalWithDiscount(t *testing.T) {
	items := []Item{
		{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(75)},
		{ProductID: "p2", Quantity: 4, UnitPrice: decimal.NewFromInt(25)},
	}
	assert.True(t, Subtotal(items).Equal(decimal.NewFromInt(250)))
	assert.True(t, Total(items, decimal.NewFromInt(50)).Equal(decimal.NewFromInt(200)))
	assert.True(t, Total(nil, decimal.Zero).IsZero())
}

func TestNumberFor(t *testing.T) {
	assert.Equal(t, "INV-0001", NumberFor(1))
	assert.Equal(t, "INV-0042", NumberFor(42))
	assert.Equal(t, "INV-12345", NumberFor(12345))
}

func TestPaymentDescription(t *testing.T) {
	inv := Invoice{InvoiceNumber: "INV-0007"}
	assert.Equal(t, "Invoice #INV-0007", inv.PaymentDescription())
}
