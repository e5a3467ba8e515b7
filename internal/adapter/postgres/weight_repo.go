package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fitcoach/internal/domain"
)

const dailyWeightColumns = "user_id, to_char(day, 'YYYY-MM-DD'), value, unit, created_at, updated_at"

// FindDailyWeight returns the entry for (userID, day), or nil if none exists.
func (d *DB) FindDailyWeight(ctx context.Context, userID int64, day string) (*domain.DailyWeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+dailyWeightColumns+" FROM daily_weights WHERE user_id = $1 AND day = $2::date;",
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
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO daily_weights (user_id, day, value, unit, created_at, updated_at)
		VALUES ($1, $2::date, $3, $4, now(), now())
		ON CONFLICT (user_id, day) DO UPDATE SET value = EXCLUDED.value, unit = EXCLUDED.unit, updated_at = now();`,
		userID, day, value, string(unit),
	)
	return err
}

// ListRecentDailyWeights returns the latest entries of a user, newest first.
func (d *DB) ListRecentDailyWeights(ctx context.Context, userID int64, limit int) ([]domain.DailyWeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+dailyWeightColumns+" FROM daily_weights WHERE user_id = $1 ORDER BY day DESC LIMIT $2;",
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return collectDailyWeights(rows, limit)
}

// ListDailyWeightsBetween returns the entries within [from, to], oldest first.
func (d *DB) ListDailyWeightsBetween(ctx context.Context, userID int64, from, to string) ([]domain.DailyWeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+dailyWeightColumns+" FROM daily_weights WHERE user_id = $1 AND day BETWEEN $2::date AND $3::date ORDER BY day ASC;",
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	return collectDailyWeights(rows, 0)
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

func collectDailyWeights(rows *sql.Rows, capacity int) ([]domain.DailyWeightEntry, error) {
	defer rows.Close()

	out := make([]domain.DailyWeightEntry, 0, capacity)
	for rows.Next() {
		e, err := scanDailyWeight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
