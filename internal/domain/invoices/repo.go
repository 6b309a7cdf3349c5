package invoices

import (
	"context"

	"github.com/amirtrade/tradeoffice-bot/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Count is used for invoice numbering: next number is count+1.
func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n)
	return n, err
}

// Save writes the invoice, its lines and the companion PaymentOut
// transaction atomically.
func (r *Repo) Save(ctx context.Context, inv *Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `
		INSERT INTO invoices (id, invoice_number, person_id, person_name, date, currency, total_amount, discount)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, inv.ID, inv.InvoiceNumber, inv.PersonID, inv.PersonName, inv.Date,
		string(inv.Currency), inv.TotalAmount, inv.Discount); err != nil {
		return err
	}

	for i, it := range inv.Items {
		if _, err = tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, position, product_id, product_name, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, inv.ID, i, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice); err != nil {
			return err
		}
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO transactions (id, date, type, amount, currency, description, entity_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, uuid.NewString(), inv.Date, string(ledger.TxPaymentOut), inv.TotalAmount,
		string(inv.Currency), inv.PaymentDescription(), inv.PersonID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) List(ctx context.Context) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_number, person_id, person_name, date, currency, total_amount, discount, created_at
		FROM invoices ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.PersonID, &inv.PersonName,
			&inv.Date, &inv.Currency, &inv.TotalAmount, &inv.Discount, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.items(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, invoice_number, person_id, person_name, date, currency, total_amount, discount, created_at
		FROM invoices WHERE id = $1
	`, id)
	var inv Invoice
	if err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.PersonID, &inv.PersonName,
		&inv.Date, &inv.Currency, &inv.TotalAmount, &inv.Discount, &inv.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	items, err := r.items(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func (r *Repo) items(ctx context.Context, invoiceID string) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, product_name, quantity, unit_price
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Delete removes the invoice and its lines. The PaymentOut transaction it
// created stays in the ledger; payments are facts, not derived records.
func (r *Repo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
