package pdf

import (
	"testing"
	"time"

	"github.com/amirtrade/tradeoffice-bot/internal/domain/invoices"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceHTML(t *testing.T) {
	inv := invoices.Invoice{
		InvoiceNumber: "INV-0003",
		PersonName:    "Customer A",
		Date:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Currency:      ledger.USD,
		Items: []invoices.Item{
			{ProductID: "p1", ProductName: "Keyboard", Quantity: 2, UnitPrice: decimal.NewFromInt(75)},
		},
		Discount:    decimal.NewFromInt(10),
		TotalAmount: decimal.NewFromInt(140),
	}

	html, err := InvoiceHTML(inv)
	require.NoError(t, err)
	assert.Contains(t, html, "INV-0003")
	assert.Contains(t, html, "Customer A")
	assert.Contains(t, html, "Keyboard")
	assert.Contains(t, html, "2026-03-14")
	assert.Contains(t, html, "150.00") // subtotal
	assert.Contains(t, html, "-10.00") // discount line
	assert.Contains(t, html, "140.00") // grand total
}

func TestInvoiceHTMLNoDiscountLine(t *testing.T) {
	inv := invoices.Invoice{
		InvoiceNumber: "INV-0001",
		Currency:      ledger.IRT,
		TotalAmount:   decimal.Zero,
	}
	html, err := InvoiceHTML(inv)
	require.NoError(t, err)
	assert.NotContains(t, html, "Discount")
}
