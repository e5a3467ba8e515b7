package sqlite

import (
	"context"

	"fitcoach/internal/domain"
)

// ListExercises returns the exercise catalog ordered by muscle group and name.
func (d *DB) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id, name, muscle_group FROM exercises ORDER BY muscle_group, name;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Exercise
	for rows.Next() {
		var e domain.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
