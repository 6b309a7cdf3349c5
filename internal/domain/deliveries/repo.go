package deliveries

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

func (r *Repo) ListCategories(ctx context.Context) ([]OrderCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM order_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderCategory
	for rows.Next() {
		var c OrderCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id string) (*OrderCategory, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM order_categories WHERE id = $1`, id)
	var c OrderCategory
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repo) CreateCategory(ctx context.Context, name string) (*OrderCategory, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO order_categories (id, name) VALUES ($1,$2)
		RETURNING id, name, created_at
	`, uuid.NewString(), name)
	var c OrderCategory
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM order_categories WHERE id = $1`, id)
	return err
}

const delCols = `id, order_category_id, delivery_date, carton_count, weight, receipt_number,
	delivery_type, destination, description, receipt_photo_id, cargo_photo_id, arrived, created_at`

func scanDelivery(row pgx.Row) (*Delivery, error) {
	var d Delivery
	err := row.Scan(&d.ID, &d.OrderCategoryID, &d.DeliveryDate, &d.CartonCount, &d.Weight,
		&d.ReceiptNumber, &d.Type, &d.Destination, &d.Description,
		&d.ReceiptPhotoID, &d.CargoPhotoID, &d.Arrived, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repo) List(ctx context.Context) ([]Delivery, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+delCols+` FROM deliveries ORDER BY delivery_date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Delivery, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+delCols+` FROM deliveries WHERE id = $1`, id)
	d, err := scanDelivery(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return d, err
}

func (r *Repo) Create(ctx context.Context, d *Delivery) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO deliveries (id, order_category_id, delivery_date, carton_count, weight,
			receipt_number, delivery_type, destination, description,
			receipt_photo_id, cargo_photo_id, arrived)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, d.ID, d.OrderCategoryID, d.DeliveryDate, d.CartonCount, d.Weight,
		d.ReceiptNumber, string(d.Type), string(d.Destination), d.Description,
		d.ReceiptPhotoID, d.CargoPhotoID, d.Arrived)
	return err
}

func (r *Repo) SetArrived(ctx context.Context, id string, arrived bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE deliveries SET arrived = $2 WHERE id = $1`, id, arrived)
	return err
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	return err
}
