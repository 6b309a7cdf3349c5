package products

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

const cols = `id, item_code, brand_name, specifications, category_name, source,
	order_number, cny_purchase_price, usd_selling_price, description, warehouse_name, created_at`

func scan(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.ItemCode, &p.BrandName, &p.Specifications, &p.CategoryName,
		&p.Source, &p.OrderNumber, &p.CNYPurchasePrice, &p.USDSellingPrice,
		&p.Description, &p.WarehouseName, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM products ORDER BY item_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+cols+` FROM products WHERE id = $1`, id)
	p, err := scan(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *Repo) GetByItemCode(ctx context.Context, code string) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+cols+` FROM products WHERE item_code = $1 LIMIT 1`, code)
	p, err := scan(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *Repo) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, item_code, brand_name, specifications, category_name,
			source, order_number, cny_purchase_price, usd_selling_price, description, warehouse_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, p.ID, p.ItemCode, p.BrandName, p.Specifications, p.CategoryName,
		p.Source, p.OrderNumber, p.CNYPurchasePrice, p.USDSellingPrice, p.Description, p.WarehouseName)
	return err
}

func (r *Repo) Update(ctx context.Context, p *Product) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE products SET item_code=$2, brand_name=$3, specifications=$4, category_name=$5,
			source=$6, order_number=$7, cny_purchase_price=$8, usd_selling_price=$9,
			description=$10, warehouse_name=$11
		WHERE id = $1
	`, p.ID, p.ItemCode, p.BrandName, p.Specifications, p.CategoryName,
		p.Source, p.OrderNumber, p.CNYPurchasePrice, p.USDSellingPrice, p.Description, p.WarehouseName)
	return err
}

// Delete removes the product row and its base inventory quantity. Invoice
// lines keep their denormalized product name.
func (r *Repo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, `DELETE FROM inventory WHERE product_id = $1`, id); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
