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

var _ repository.QuestionRepository = (*QuestionRepo)(nil)

type QuestionRepo struct {
	pool *pgxpool.Pool
}

func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

func (r *QuestionRepo) InsertMany(ctx context.Context, questions []*model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	const q = `
INSERT INTO questions (id, session_id, question, answer, is_pinned, difficulty, category, note, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);`
	for _, question := range questions {
		batch.Queue(q, question.ID, question.SessionID, question.Question, question.Answer,
			question.IsPinned, question.Difficulty, question.Category, question.Note,
			question.CreatedAt, question.UpdatedAt)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range questions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
	}
	return nil
}

func (r *QuestionRepo) FindByID(ctx context.Context, id string) (*model.Question, error) {
	const q = `
SELECT id, session_id, question, answer, is_pinned, difficulty, category, note, created_at, updated_at
  FROM questions WHERE id=$1;`
	return scanQuestion(r.pool.QueryRow(ctx, q, id))
}

func (r *QuestionRepo) FindBySession(ctx context.Context, sessionID string) ([]*model.Question, error) {
	const q = `
SELECT id, session_id, question, answer, is_pinned, difficulty, category, note, created_at, updated_at
  FROM questions WHERE session_id=$1 ORDER BY is_pinned DESC, created_at DESC;`
	rows, err := r.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []*model.Question
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func (r *QuestionRepo) Search(ctx context.Context, sessionID, query string) ([]*model.Question, error) {
	const q = `
SELECT id, session_id, question, answer, is_pinned, difficulty, category, note, created_at, updated_at
  FROM questions
 WHERE session_id=$1
   AND (question ILIKE '%' || $2 || '%' OR answer ILIKE '%' || $2 || '%' OR category ILIKE '%' || $2 || '%')
 ORDER BY is_pinned DESC, created_at DESC;`
	rows, err := r.pool.Query(ctx, q, sessionID, query)
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	defer rows.Close()

	var questions []*model.Question
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func (r *QuestionRepo) CountBySession(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE session_id=$1;`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (r *QuestionRepo) SetPinned(ctx context.Context, id string, pinned bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE questions SET is_pinned=$2, updated_at=NOW() WHERE id=$1;`, id, pinned)
	if err != nil {
		return fmt.Errorf("set pinned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *QuestionRepo) Update(ctx context.Context, question *model.Question) error {
	const q = `
UPDATE questions SET question=$2, answer=$3, difficulty=$4, category=$5, note=$6, updated_at=NOW()
 WHERE id=$1;`
	tag, err := r.pool.Exec(ctx, q, question.ID, question.Question, question.Answer,
		question.Difficulty, question.Category, question.Note)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *QuestionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id=$1;`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	var q model.Question
	err := row.Scan(&q.ID, &q.SessionID, &q.Question, &q.Answer, &q.IsPinned,
		&q.Difficulty, &q.Category, &q.Note, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}
