package persons

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) List(ctx context.Context) ([]Person, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM persons ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Person, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM persons WHERE id = $1`, id)
	var p Person
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, name string) (*Person, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO persons (name) VALUES ($1)
		RETURNING id, name, created_at
	`, name)
	var p Person
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Rename(ctx context.Context, id int64, name string) error {
	_, err := r.pool.Exec(ctx, `UPDATE persons SET name = $2 WHERE id = $1`, id, name)
	return err
}

// Delete removes the person row only. Transactions referencing the id stay
// as-is and are silently skipped by the balance fold.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM persons WHERE id = $1`, id)
	return err
}
