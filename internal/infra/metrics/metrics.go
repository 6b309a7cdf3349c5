package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransactionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradeoffice_transactions_recorded_total",
		Help: "Ledger transactions recorded, by type.",
	}, []string{"type"})

	InvoicesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradeoffice_invoices_saved_total",
		Help: "Invoices saved.",
	})

	PDFsRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tradeoffice_invoice_pdfs_rendered_total",
		Help: "Invoice PDFs rendered.",
	})

	SheetImports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tradeoffice_sheet_imports_total",
		Help: "Spreadsheet imports processed, by kind.",
	}, []string{"kind"})
)
