package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"supportbot/internal/models"
)

const unansweredColumns = `id, question, count, first_seen_at, last_seen_at, digested_at`

// RecordUnansweredQuestion upserts a question that matched no entry.
// The question should already be normalised so repeats share a row.
func (d *DB) RecordUnansweredQuestion(ctx context.Context, question string) error {
	if question == "" {
		return ErrEmptyQuestion
	}
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO unanswered_questions (question, count, first_seen_at, last_seen_at)
		VALUES ($1, 1, NOW(), NOW())
		ON CONFLICT (question) DO UPDATE
		SET count = unanswered_questions.count + 1, last_seen_at = NOW()
	`, question)
	if err != nil {
		return fmt.Errorf("failed to record unanswered question: %w", err)
	}
	return nil
}

// GetUnansweredQuestion returns a single unanswered question by ID.
func (d *DB) GetUnansweredQuestion(ctx context.Context, id uuid.UUID) (*models.UnansweredQuestion, error) {
	row := d.Pool.QueryRow(ctx, `SELECT `+unansweredColumns+` FROM unanswered_questions WHERE id = $1`, id)

	q, err := scanUnanswered(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get unanswered question: %w", err)
	}
	return q, nil
}

// GetTopUnansweredQuestions returns the most frequently asked unanswered
// questions.
func (d *DB) GetTopUnansweredQuestions(ctx context.Context, limit int) ([]models.UnansweredQuestion, error) {
	return d.queryUnanswered(ctx, `
		SELECT `+unansweredColumns+`
		FROM unanswered_questions
		ORDER BY count DESC, last_seen_at DESC
		LIMIT $1
	`, limit)
}

// GetUndigestedQuestions returns unanswered questions seen since they were
// last included in a digest, most frequent first.
func (d *DB) GetUndigestedQuestions(ctx context.Context, limit int) ([]models.UnansweredQuestion, error) {
	return d.queryUnanswered(ctx, `
		SELECT `+unansweredColumns+`
		FROM unanswered_questions
		WHERE digested_at IS NULL OR last_seen_at > digested_at
		ORDER BY count DESC, last_seen_at DESC
		LIMIT $1
	`, limit)
}

// MarkQuestionsDigested stamps the given questions as sent in a digest.
func (d *DB) MarkQuestionsDigested(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := d.Pool.Exec(ctx, `
		UPDATE unanswered_questions SET digested_at = NOW() WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to mark questions digested: %w", err)
	}
	return nil
}

// DeleteUnansweredQuestion removes a question, e.g. after the knowledge base
// has been updated to cover it.
func (d *DB) DeleteUnansweredQuestion(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM unanswered_questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete unanswered question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

// DeleteUnansweredQuestionsBefore removes questions last seen before cutoff
// and returns how many were removed.
func (d *DB) DeleteUnansweredQuestionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM unanswered_questions WHERE last_seen_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune unanswered questions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (d *DB) queryUnanswered(ctx context.Context, query string, args ...any) ([]models.UnansweredQuestion, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query unanswered questions: %w", err)
	}
	defer rows.Close()

	var questions []models.UnansweredQuestion
	for rows.Next() {
		q, err := scanUnanswered(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

func scanUnanswered(row pgx.Row) (*models.UnansweredQuestion, error) {
	var q models.UnansweredQuestion
	if err := row.Scan(&q.ID, &q.Question, &q.Count, &q.FirstSeenAt, &q.LastSeenAt, &q.DigestedAt); err != nil {
		return nil, err
	}
	return &q, nil
}
