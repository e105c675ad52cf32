package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	const q = `
INSERT INTO sessions (id, user_id, role, experience, topics, description, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`
	_, err := r.pool.Exec(ctx, q, s.ID, s.UserID, s.Role, s.Experience, s.Topics, s.Description, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	const q = `
SELECT id, user_id, role, experience, topics, description, status, created_at, updated_at
  FROM sessions WHERE id=$1;`
	return scanSession(r.pool.QueryRow(ctx, q, id))
}

func (r *SessionRepo) FindByUser(ctx context.Context, userID string) ([]*model.Session, error) {
	const q = `
SELECT id, user_id, role, experience, topics, description, status, created_at, updated_at
  FROM sessions WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepo) UpdateStatus(ctx context.Context, id string, status model.SessionStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE sessions SET status=$2, updated_at=NOW() WHERE id=$1;`, id, status)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete relies on the questions FK being ON DELETE CASCADE.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id=$1;`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var s model.Session
	err := row.Scan(&s.ID, &s.UserID, &s.Role, &s.Experience, &s.Topics, &s.Description, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
