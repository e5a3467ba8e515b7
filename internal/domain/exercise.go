package domain

import "context"

// Exercise is an entry of the read-only exercise catalog used by workout plans.
type Exercise struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
}

// ExerciseRepository is the port for the exercise catalog.
type ExerciseRepository interface {
	ListExercises(ctx context.Context) ([]Exercise, error)
}
