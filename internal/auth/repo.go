package auth

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, pass_hash, created_at FROM users WHERE username = $1
	`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PassHash, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetByUserID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, pass_hash, created_at FROM users WHERE id = $1
	`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PassHash, &u.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetSession(ctx context.Context, chatID int64) (*Session, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT chat_id, user_id, created_at FROM sessions WHERE chat_id = $1
	`, chatID)
	var s Session
	if err := row.Scan(&s.ChatID, &s.UserID, &s.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) SetSession(ctx context.Context, chatID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (chat_id, user_id)
		VALUES ($1,$2)
		ON CONFLICT (chat_id) DO UPDATE SET user_id = $2, created_at = now()
	`, chatID, userID)
	return err
}

func (r *Repo) ClearSession(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE chat_id = $1`, chatID)
	return err
}
