package domain

import (
	"context"
	"fmt"
	"time"
)

// Height bounds for a body profile, in centimetres.
const (
	MinHeightCm = 50.0
	MaxHeightCm = 300.0
)

// UserBodyProfile holds a user's default weight, height and preferred unit.
// Zero Weight or HeightCm means "not set".
type UserBodyProfile struct {
	UserID    int64      `json:"userId"`
	Weight    float64    `json:"weight"`
	HeightCm  float64    `json:"heightCm"`
	Unit      WeightUnit `json:"unit"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Validate checks the optional fields of a profile update.
func (p UserBodyProfile) Validate() error {
	if p.Weight != 0 {
		if err := ValidateRecordedWeight(p.Weight); err != nil {
			return err
		}
	}
	if p.HeightCm != 0 && (!finite(p.HeightCm) || p.HeightCm < MinHeightCm || p.HeightCm > MaxHeightCm) {
		return fmt.Errorf("%w: heightCm must be within [%g, %g]", ErrValidation, MinHeightCm, MaxHeightCm)
	}
	if !p.Unit.Valid() {
		return fmt.Errorf("%w: unit must be \"KG\" or \"LB\"", ErrValidation)
	}
	return nil
}

// ProfileRepository is the port for body profile persistence.
type ProfileRepository interface {
	// FindBodyProfile returns nil, nil when the user has no profile.
	FindBodyProfile(ctx context.Context, userID int64) (*UserBodyProfile, error)
	UpsertBodyProfile(ctx context.Context, p UserBodyProfile) error
}
