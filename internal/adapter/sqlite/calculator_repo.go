package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitcoach/internal/domain"
)

// FindCalculatorSession returns the session for (userID, category, day), or nil.
func (d *DB) FindCalculatorSession(ctx context.Context, userID int64, category domain.CalculatorCategory, day string) (*domain.CalculatorSession, error) {
	var (
		s   domain.CalculatorSession
		cat string
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, user_id, category, day, value, created_at FROM calculator_sessions WHERE user_id = ? AND category = ? AND day = ?;",
		userID, string(category), day,
	).Scan(&s.ID, &s.UserID, &cat, &s.Day, &s.Value, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Category = domain.CalculatorCategory(cat)
	return &s, nil
}

// UpsertCalculatorSession stores s, replacing the session of the same
// (user, category, day).
func (d *DB) UpsertCalculatorSession(ctx context.Context, s domain.CalculatorSession) (*domain.CalculatorSession, error) {
	out := s
	out.CreatedAt = time.Now().UTC()
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO calculator_sessions (user_id, category, day, value, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category, day) DO UPDATE SET value = excluded.value, created_at = excluded.created_at
		RETURNING id;`,
		s.UserID, string(s.Category), s.Day, s.Value, out.CreatedAt,
	).Scan(&out.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
