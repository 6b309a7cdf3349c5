package pdf

import (
	"bytes"
	"html/template"

	"github.com/amirtrade/tradeoffice-bot/internal/domain/invoices"
	"github.com/shopspring/decimal"
)

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; color: #1e293b; margin: 36px; }
  h1 { font-size: 22px; margin-bottom: 2px; }
  .meta { color: #475569; font-size: 13px; margin-bottom: 18px; }
  table { width: 100%; border-collapse: collapse; font-size: 13px; }
  th { text-align: left; background: #f1f5f9; padding: 8px; border-bottom: 2px solid #cbd5e1; }
  td { padding: 8px; border-bottom: 1px solid #e2e8f0; }
  .num { text-align: right; font-variant-numeric: tabular-nums; }
  .totals { margin-top: 14px; width: 40%; margin-left: auto; font-size: 13px; }
  .totals td { border: none; padding: 4px 8px; }
  .grand { font-weight: bold; border-top: 2px solid #cbd5e1; }
</style>
</head>
<body>
  <h1>Invoice {{.Invoice.InvoiceNumber}}</h1>
  <div class="meta">
    Bill to: <b>{{.Invoice.PersonName}}</b><br>
    Date: {{.Invoice.Date.Format "2006-01-02"}} &middot; Currency: {{.Invoice.Currency}}
  </div>
  <table>
    <thead>
      <tr><th>Item</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Total</th></tr>
    </thead>
    <tbody>
      {{range .Invoice.Items}}
      <tr>
        <td>{{.ProductName}}</td>
        <td class="num">{{.Quantity}}</td>
        <td class="num">{{.UnitPrice.StringFixed 2}}</td>
        <td class="num">{{.LineTotal.StringFixed 2}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
  <table class="totals">
    <tr><td>Subtotal</td><td class="num">{{.Subtotal.StringFixed 2}} {{.Invoice.Currency}}</td></tr>
    {{if not .Invoice.Discount.IsZero}}
    <tr><td>Discount</td><td class="num">-{{.Invoice.Discount.StringFixed 2}} {{.Invoice.Currency}}</td></tr>
    {{end}}
    <tr class="grand"><td>Total</td><td class="num">{{.Invoice.TotalAmount.StringFixed 2}} {{.Invoice.Currency}}</td></tr>
  </table>
</body>
</html>`))

type invoicePage struct {
	Invoice  invoices.Invoice
	Subtotal decimal.Decimal
}

// InvoiceHTML renders the printable invoice document.
func InvoiceHTML(inv invoices.Invoice) (string, error) {
	var buf bytes.Buffer
	err := invoiceTmpl.Execute(&buf, invoicePage{
		Invoice:  inv,
		Subtotal: invoices.Subtotal(inv.Items),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
