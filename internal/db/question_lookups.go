package db

import (
	"context"

	"supportbot/internal/models"
)

// IncrementQuestionLookup upserts a question count for an entry by outcome.
func (d *DB) IncrementQuestionLookup(ctx context.Context, entry, outcome string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO question_lookups (entry, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (entry, outcome) DO UPDATE
		SET count = question_lookups.count + 1, last_seen_at = NOW()
	`, entry, outcome)
	return err
}

// GetAllQuestionLookups returns all question lookup rows for metrics export,
// busiest entries first.
func (d *DB) GetAllQuestionLookups(ctx context.Context) ([]models.QuestionLookup, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT entry, outcome, count, last_seen_at
		FROM question_lookups
		ORDER BY count DESC, entry ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []models.QuestionLookup
	for rows.Next() {
		var l models.QuestionLookup
		if err := rows.Scan(&l.Entry, &l.Outcome, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}
