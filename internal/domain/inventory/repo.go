package inventory

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo stores the base quantity per product id. Base is the manually set
// starting stock, not the derived on-hand value.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Base(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT product_id, qty FROM inventory`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var id string
		var qty int64
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		out[id] = qty
	}
	return out, rows.Err()
}

func (r *Repo) Set(ctx context.Context, productID string, qty int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO inventory (product_id, qty)
		VALUES ($1,$2)
		ON CONFLICT (product_id) DO UPDATE SET qty = EXCLUDED.qty
	`, productID, qty)
	return err
}

// SetBulk replaces the base quantities of the given products in one
// transaction; used by the spreadsheet import.
func (r *Repo) SetBulk(ctx context.Context, quantities map[string]int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for id, qty := range quantities {
		if _, err = tx.Exec(ctx, `
			INSERT INTO inventory (product_id, qty)
			VALUES ($1,$2)
			ON CONFLICT (product_id) DO UPDATE SET qty = EXCLUDED.qty
		`, id, qty); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
