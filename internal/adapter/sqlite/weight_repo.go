package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitcoach/internal/domain"
)

const dailyWeightColumns = "user_id, day, value, unit, created_at, updated_at"

// FindDailyWeight returns the entry for (userID, day), or nil if none exists.
func (d *DB) FindDailyWeight(ctx context.Context, userID int64, day string) (*domain.DailyWeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+dailyWeightColumns+" FROM daily_weights WHERE user_id = ? AND day = ?;",
		userID, day,
	)
	e, err := scanDailyWeight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpsertDailyWeight creates or overwrites the entry for (userID, day) in a
// single statement.
func (d *DB) UpsertDailyWeight(ctx context.Context, userID int64, day string, value float64, unit domain.WeightUnit) error {
	now := time.Now().UTC()
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO daily_weights (user_id, day, value, unit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, day) DO UPDATE SET value = excluded.value, unit = excluded.unit, updated_at = excluded.updated_at;`,
		userID, day, value, string(unit), now, now,
	)
	return err
}

// ListRecentDailyWeights returns the latest entries of a user, newest first.
func (d *DB) ListRecentDailyWeights(ctx context.Context, userID int64, limit int) ([]domain.DailyWeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+dailyWeightColumns+" FROM daily_weights WHERE user_id = ? ORDER BY day DESC LIMIT ?;",
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectDailyWeights(rows)
}

// ListDailyWeightsBetween returns the entries within [from, to], oldest first.
// Days are stored as YYYY-MM-DD so text order is calendar order.
func (d *DB) ListDailyWeightsBetween(ctx context.Context, userID int64, from, to string) ([]domain.DailyWeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+dailyWeightColumns+" FROM daily_weights WHERE user_id = ? AND day >= ? AND day <= ? ORDER BY day ASC;",
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	return collectDailyWeights(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDailyWeight(s scanner) (domain.DailyWeightEntry, error) {
	var (
		e    domain.DailyWeightEntry
		unit string
	)
	if err := s.Scan(&e.UserID, &e.Day, &e.Value, &unit, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return domain.DailyWeightEntry{}, err
	}
	e.Unit = domain.WeightUnit(unit)
	return e, nil
}

func collectDailyWeights(rows *sql.Rows) ([]domain.DailyWeightEntry, error) {
	defer rows.Close()

	var out []domain.DailyWeightEntry
	for rows.Next() {
		e, err := scanDailyWeight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
