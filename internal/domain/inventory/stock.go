package inventory

import (
	"github.com/amirtrade/tradeoffice-bot/internal/domain/invoices"
	"github.com/amirtrade/tradeoffice-bot/internal/domain/products"
)

// CurrentStock derives the on-hand quantity for every product:
// max(0, base − sold), where sold is the cumulative invoiced quantity.
// Never stored; recomputed from scratch on each read. Missing base entries
// count as 0, and oversold products clamp to 0 rather than go negative.
func CurrentStock(prods []products.Product, base map[string]int64, invs []invoices.Invoice) map[string]int64 {
	sold := make(map[string]int64)
	for _, inv := range invs {
		for _, it := range inv.Items {
			sold[it.ProductID] += it.Quantity
		}
	}

	out := make(map[string]int64, len(prods))
	for _, p := range prods {
		cur := base[p.ID] - sold[p.ID]
		if cur < 0 {
			cur = 0
		}
		out[p.ID] = cur
	}
	return out
}
