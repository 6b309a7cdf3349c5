package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. ItemCode is unique by convention only; the id
// is the join key used by inventory and invoice lines.
type Product struct {
	ID               string
	ItemCode         string
	BrandName        string
	Specifications   string
	CategoryName     string
	Source           string
	OrderNumber      string
	CNYPurchasePrice decimal.Decimal
	USDSellingPrice  decimal.Decimal
	Description      string
	WarehouseName    string
	CreatedAt        time.Time
}

// Label is the short form shown in pick lists.
func (p Product) Label() string {
	if p.Specifications != "" {
		return p.ItemCode + " " + p.Specifications
	}
	return p.ItemCode
}
