package inventory

import (
	"testing"

	"github.com/amirtrade/tradeoffice-bot/internal/domain/invoices"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/products"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prods(ids ...string) []products.Product {
	out := make([]products.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, products.Product{ID: id, ItemCode: id})
	}
	return out
}

func invoiceWith(items ...invoices.Item) invoices.Invoice {
	return invoices.Invoice{Items: items}
}

func TestCurrentStockSubtractsSold(t *testing.T) {
	got := CurrentStock(prods("p1", "p2"),
		map[string]int64{"p1": 150, "p2": 300},
		[]invoices.Invoice{
			invoiceWith(invoices.Item{ProductID: "p1", Quantity: 30}),
			invoiceWith(invoices.Item{ProductID: "p1", Quantity: 20}, invoices.Item{ProductID: "p2", Quantity: 5}),
		})
	assert.Equal(t, int64(100), got["p1"])
	assert.Equal(t, int64(295), got["p2"])
}

func TestCurrentStockClampsAtZero(t *testing.T) {
	got := CurrentStock(prods("p1"),
		map[string]int64{"p1": 100},
		[]invoices.Invoice{
			invoiceWith(invoices.Item{ProductID: "p1", Quantity: 30}),
			invoiceWith(invoices.Item{ProductID: "p1", Quantity: 80}),
		})
	assert.Equal(t, int64(0), got["p1"], "oversold stock clamps, never negative")
}

func TestCurrentStockDefinedForEveryProduct(t *testing.T) {
	got := CurrentStock(prods("a", "b", "c"), map[string]int64{"b": 7}, nil)
	require.Len(t, got, 3)
	assert.Equal(t, int64(0), got["a"], "absent base counts as zero")
	assert.Equal(t, int64(7), got["b"])
	assert.Equal(t, int64(0), got["c"])
}

func TestCurrentStockIgnoresUnknownProducts(t *testing.T) {
	// Lines referencing products outside the catalog contribute nothing.
	got := CurrentStock(prods("p1"), map[string]int64{"p1": 10},
		[]invoices.Invoice{invoiceWith(invoices.Item{ProductID: "ghost", Quantity: 99})})
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got["p1"])
}

func TestCurrentStockIdempotent(t *testing.T) {
	ps := prods("p1")
	base := map[string]int64{"p1": 50}
	invs := []invoices.Invoice{invoiceWith(invoices.Item{ProductID: "p1", Quantity: 20})}
	assert.Equal(t, CurrentStock(ps, base, invs), CurrentStock(ps, base, invs))
}
