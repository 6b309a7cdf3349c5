package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const txColumns = `id, date, type, amount, currency, description,
	entity_id, from_entity_id, to_entity_id, rate, to_currency, category_id, created_at`

func scanTx(row pgx.Row) (*Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Date, &t.Type, &t.Amount, &t.Currency, &t.Description,
		&t.EntityID, &t.FromEntityID, &t.ToEntityID, &t.Rate, &t.ToCurrency, &t.CategoryID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all transactions, newest first. The balance fold does not
// depend on the order; the history view does.
func (r *Repo) List(ctx context.Context) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+txColumns+` FROM transactions ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id = $1`, id)
	t, err := scanTx(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func (r *Repo) Create(ctx context.Context, t *Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (id, date, type, amount, currency, description,
			entity_id, from_entity_id, to_entity_id, rate, to_currency, category_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, t.ID, t.Date, string(t.Type), t.Amount, string(t.Currency), t.Description,
		t.EntityID, t.FromEntityID, t.ToEntityID, t.Rate, t.ToCurrency, t.CategoryID)
	return err
}

// Replace overwrites the transaction by id: edits are whole-record.
func (r *Repo) Replace(ctx context.Context, t *Transaction) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE transactions SET date=$2, type=$3, amount=$4, currency=$5, description=$6,
			entity_id=$7, from_entity_id=$8, to_entity_id=$9, rate=$10, to_currency=$11, category_id=$12
		WHERE id = $1
	`, t.ID, t.Date, string(t.Type), t.Amount, string(t.Currency), t.Description,
		t.EntityID, t.FromEntityID, t.ToEntityID, t.Rate, t.ToCurrency, t.CategoryID)
	return err
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	return err
}

// ListByCategory returns the expense transactions of one category, newest
// first.
func (r *Repo) ListByCategory(ctx context.Context, categoryID string) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE category_id = $1 ORDER BY date DESC, created_at DESC`,
		categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
