package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CalculatorCategory tags the kind of calculator a session was logged for.
type CalculatorCategory string

// Calculator categories.
const (
	CategoryBodyFat CalculatorCategory = "BODY_FAT"
	CategoryBMI     CalculatorCategory = "BMI"
)

// ParseCategory accepts the category tags case-insensitively.
func ParseCategory(s string) (CalculatorCategory, error) {
	switch c := CalculatorCategory(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryBodyFat, CategoryBMI:
		return c, nil
	}
	return "", fmt.Errorf("%w: category must be \"BODY_FAT\" or \"BMI\"", ErrValidation)
}

// CalculatorSession records that a user ran a calculator on a day.
// There is at most one session per (UserID, Category, Day); logging again overwrites it.
type CalculatorSession struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"userId"`
	Category  CalculatorCategory `json:"category"`
	Day       string             `json:"day"`
	Value     float64            `json:"value"`
	CreatedAt time.Time          `json:"createdAt"`
}

// CalculatorSessionRepository is the port for calculator session persistence.
type CalculatorSessionRepository interface {
	// FindCalculatorSession returns nil, nil when nothing was logged.
	FindCalculatorSession(ctx context.Context, userID int64, category CalculatorCategory, day string) (*CalculatorSession, error)
	UpsertCalculatorSession(ctx context.Context, s CalculatorSession) (*CalculatorSession, error)
}

// BMIClass buckets a body mass index.
type BMIClass string

// BMI classes, WHO cut-offs.
const (
	BMIUnderweight BMIClass = "underweight"
	BMINormal      BMIClass = "normal"
	BMIOverweight  BMIClass = "overweight"
	BMIObese       BMIClass = "obese"
)

// BMI computes the body mass index from kilograms and centimetres.
func BMI(weightKg, heightCm float64) (float64, error) {
	if weightKg <= 0 {
		return 0, fmt.Errorf("%w: weight is required", ErrValidation)
	}
	if heightCm <= 0 {
		return 0, fmt.Errorf("%w: height is required", ErrValidation)
	}
	m := heightCm / 100
	return weightKg / (m * m), nil
}

// ClassifyBMI returns the class for a BMI value.
func ClassifyBMI(bmi float64) BMIClass {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}
