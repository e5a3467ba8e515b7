package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// WeightUnit is the unit a weight value is expressed in.
type WeightUnit string

// Supported weight units.
const (
	UnitKG WeightUnit = "KG"
	UnitLB WeightUnit = "LB"
)

// Bounds applied to a raw recorded weight, in whatever unit it was entered.
const (
	MinRecordedWeight = 20.0
	MaxRecordedWeight = 500.0
)

// ParseWeightUnit accepts "kg", "lb" and "lbs" in any case.
func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "KG":
		return UnitKG, nil
	case "LB", "LBS":
		return UnitLB, nil
	}
	return "", fmt.Errorf("%w: unit must be \"KG\" or \"LB\"", ErrValidation)
}

// Valid reports whether u is one of the supported units.
func (u WeightUnit) Valid() bool {
	return u == UnitKG || u == UnitLB
}

// Label is the short display label of the unit.
func (u WeightUnit) Label() string {
	if u == UnitLB {
		return "lbs"
	}
	return "kg"
}

// ValidateRecordedWeight checks the plausible human body-weight bound on the raw value.
// NaN and infinities are rejected.
func ValidateRecordedWeight(v float64) error {
	if !finite(v) || v < MinRecordedWeight || v > MaxRecordedWeight {
		return fmt.Errorf("%w: weight must be within [%g, %g]", ErrValidation, MinRecordedWeight, MaxRecordedWeight)
	}
	return nil
}

// DailyWeightEntry is one user's weight for one calendar day.
// There is at most one entry per (UserID, Day).
type DailyWeightEntry struct {
	UserID    int64      `json:"userId"`
	Day       string     `json:"day"`
	Value     float64    `json:"value"`
	Unit      WeightUnit `json:"unit"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// WeightSource tells where a resolved weight came from.
type WeightSource string

// Weight sources.
const (
	SourceEntry   WeightSource = "entry"
	SourceProfile WeightSource = "profile"
)

// WeightResult is the resolved weight for a day.
type WeightResult struct {
	Weight   float64      `json:"weight"`
	Unit     WeightUnit   `json:"unit"`
	Source   WeightSource `json:"source"`
	IsLocked bool         `json:"isLocked"`
}

// WeightRepository is the port for daily weight persistence.
type WeightRepository interface {
	// FindDailyWeight returns nil, nil when no entry exists for (userID, day).
	FindDailyWeight(ctx context.Context, userID int64, day string) (*DailyWeightEntry, error)
	// UpsertDailyWeight atomically creates the entry or overwrites value and unit.
	UpsertDailyWeight(ctx context.Context, userID int64, day string, value float64, unit WeightUnit) error
	ListRecentDailyWeights(ctx context.Context, userID int64, limit int) ([]DailyWeightEntry, error)
	// ListDailyWeightsBetween returns entries with from <= day <= to, oldest first.
	ListDailyWeightsBetween(ctx context.Context, userID int64, from, to string) ([]DailyWeightEntry, error)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
