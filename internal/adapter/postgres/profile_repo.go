package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fitcoach/internal/domain"
)

// FindBodyProfile returns the body profile of userID, or nil if none exists.
func (d *DB) FindBodyProfile(ctx context.Context, userID int64) (*domain.UserBodyProfile, error) {
	var (
		p    domain.UserBodyProfile
		unit string
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT user_id, weight, height_cm, unit, updated_at FROM body_profiles WHERE user_id = $1;",
		userID,
	).Scan(&p.UserID, &p.Weight, &p.HeightCm, &unit, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Unit = domain.WeightUnit(unit)
	return &p, nil
}

// UpsertBodyProfile creates or replaces the body profile of p.UserID.
func (d *DB) UpsertBodyProfile(ctx context.Context, p domain.UserBodyProfile) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO body_profiles (user_id, weight, height_cm, unit, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET weight = EXCLUDED.weight, height_cm = EXCLUDED.height_cm, unit = EXCLUDED.unit, updated_at = now();`,
		p.UserID, p.Weight, p.HeightCm, string(p.Unit),
	)
	return err
}
