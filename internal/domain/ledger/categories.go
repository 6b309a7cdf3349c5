package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepo manages partner expense categories.
type CategoryRepo struct {
	pool *pgxpool.Pool
}

func NewCategoryRepo(pool *pgxpool.Pool) *CategoryRepo { return &CategoryRepo{pool: pool} }

func (r *CategoryRepo) List(ctx context.Context) ([]ExpenseCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM expense_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseCategory
	for rows.Next() {
		var c ExpenseCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*ExpenseCategory, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM expense_categories WHERE id = $1`, id)
	var c ExpenseCategory
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, name string) (*ExpenseCategory, error) {
	id := uuid.NewString()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO expense_categories (id, name) VALUES ($1,$2)
		RETURNING id, name, created_at
	`, id, name)
	var c ExpenseCategory
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Rename touches only the category row; expense descriptions are untouched.
func (r *CategoryRepo) Rename(ctx context.Context, id, name string) error {
	_, err := r.pool.Exec(ctx, `UPDATE expense_categories SET name = $2 WHERE id = $1`, id, name)
	return err
}

// Delete removes the category; transactions keep running with category_id
// nulled by the FK.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM expense_categories WHERE id = $1`, id)
	return err
}

// Summaries returns every category with its cumulative spend and expense
// count, alphabetically.
func (r *CategoryRepo) Summaries(ctx context.Context) ([]CategorySummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.created_at,
		       COALESCE(SUM(t.amount), 0),
		       COUNT(t.id)
		FROM expense_categories c
		LEFT JOIN transactions t ON t.category_id = c.id
		GROUP BY c.id, c.name, c.created_at
		ORDER BY c.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategorySummary
	for rows.Next() {
		var s CategorySummary
		if err := rows.Scan(&s.Category.ID, &s.Category.Name, &s.Category.CreatedAt,
			&s.TotalSpent, &s.Expenses); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
