package invoices

import (
	"fmt"
	"time"

	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// Item is one invoice line. ProductName and UnitPrice are frozen at creation
// time; later product edits do not touch saved invoices.
type Item struct {
	ProductID   string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

func (it Item) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// Invoice is a committed sale. Saving one decrements derived stock of every
// line's product and records a PaymentOut transaction for TotalAmount against
// the customer.
type Invoice struct {
	ID            string
	InvoiceNumber string
	PersonID      int64
	PersonName    string
	Date          time.Time
	Currency      ledger.Currency
	Items         []Item
	TotalAmount   decimal.Decimal
	Discount      decimal.Decimal
	CreatedAt     time.Time
}

// Subtotal is the item sum before discount.
func Subtotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Total applies the discount to the item sum.
func Total(items []Item, discount decimal.Decimal) decimal.Decimal {
	return Subtotal(items).Sub(discount)
}

// NumberFor formats the running invoice number for the n-th invoice.
func NumberFor(n int64) string {
	return fmt.Sprintf("INV-%04d", n)
}

// PaymentDescription links the companion ledger transaction to the invoice.
func (inv Invoice) PaymentDescription() string {
	return fmt.Sprintf("Invoice #%s", inv.InvoiceNumber)
}
