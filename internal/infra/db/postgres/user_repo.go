package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, name, email, password_hash, email_verified, created_at, last_active_at)
VALUES ($1,$2,$3,$4,$5,$6,$7);`
	_, err := r.pool.Exec(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.EmailVerified, u.CreatedAt, u.LastActiveAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `
SELECT id, name, email, password_hash, email_verified, created_at, last_active_at
  FROM users WHERE id=$1;`
	return r.scanOne(r.pool.QueryRow(ctx, q, id))
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, name, email, password_hash, email_verified, created_at, last_active_at
  FROM users WHERE email=$1;`
	return r.scanOne(r.pool.QueryRow(ctx, q, email))
}

func (r *UserRepo) SetEmailVerified(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET email_verified=TRUE WHERE id=$1;`, id)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) TouchLastActive(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_active_at=$2 WHERE id=$1;`, id, time.Now().UTC())
	return err
}

func (r *UserRepo) scanOne(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.EmailVerified, &u.CreatedAt, &u.LastActiveAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
