package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"fitcoach/internal/domain"
)

// CalculatorRecorder receives a notification for every logged session.
type CalculatorRecorder interface {
	CalculatorLogged(category string)
}

// BMIResult is the outcome of CalculateBMI.
type BMIResult struct {
	BMI      float64             `json:"bmi"`
	Class    domain.BMIClass     `json:"class"`
	WeightKg float64             `json:"weightKg"`
	HeightCm float64             `json:"heightCm"`
	Source   domain.WeightSource `json:"source"`
}

// CalculatorService tracks which body calculators a user ran on a day.
type CalculatorService struct {
	ids      domain.IdentityResolver
	sessions domain.CalculatorSessionRepository
	profiles domain.ProfileRepository
	weights  *WeightService
	recorder CalculatorRecorder
	log      *slog.Logger
}

// NewCalculatorService creates a CalculatorService. The weight service
// supplies today's weight for CalculateBMI.
func NewCalculatorService(ids domain.IdentityResolver, sessions domain.CalculatorSessionRepository, profiles domain.ProfileRepository, weights *WeightService) *CalculatorService {
	return &CalculatorService{ids: ids, sessions: sessions, profiles: profiles, weights: weights, log: slog.Default()}
}

// WithRecorder sets the observer notified of logged sessions.
func (s *CalculatorService) WithRecorder(r CalculatorRecorder) *CalculatorService {
	s.recorder = r
	return s
}

// IsTodaysCategoryLogged reports whether a session of category exists for clientDate.
// Categories are independent of each other.
func (s *CalculatorService) IsTodaysCategoryLogged(ctx context.Context, clientDate string, category domain.CalculatorCategory) (bool, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return false, err
	}
	day, err := domain.ParseDay(clientDate)
	if err != nil {
		return false, err
	}
	category, err = domain.ParseCategory(string(category))
	if err != nil {
		return false, err
	}

	sess, err := s.sessions.FindCalculatorSession(ctx, userID, category, day)
	if err != nil {
		return false, wrapStoreErr(s.log, "find calculator session", userID, err)
	}
	return sess != nil, nil
}

// LogSession stores the result of a calculator run for clientDate, replacing
// an earlier run of the same category on that day.
func (s *CalculatorService) LogSession(ctx context.Context, clientDate string, category domain.CalculatorCategory, value float64) (*domain.CalculatorSession, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return nil, err
	}
	day, err := domain.ParseDay(clientDate)
	if err != nil {
		return nil, err
	}
	category, err = domain.ParseCategory(string(category))
	if err != nil {
		return nil, err
	}
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("%w: value must be a non-negative number", domain.ErrValidation)
	}
	return s.upsert(ctx, userID, category, day, value)
}

// CalculateBMI computes the BMI from today's weight and the profile height,
// and logs it as the BMI session of clientDate.
func (s *CalculatorService) CalculateBMI(ctx context.Context, clientDate string) (BMIResult, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return BMIResult{}, err
	}
	day, err := domain.ParseDay(clientDate)
	if err != nil {
		return BMIResult{}, err
	}

	w, err := s.weights.GetTodaysWeight(ctx, day)
	if err != nil {
		return BMIResult{}, err
	}
	profile, err := s.profiles.FindBodyProfile(ctx, userID)
	if err != nil {
		return BMIResult{}, wrapStoreErr(s.log, "find body profile", userID, err)
	}
	var heightCm float64
	if profile != nil {
		heightCm = profile.HeightCm
	}

	weightKg := domain.ToKg(w.Weight, w.Unit)
	bmi, err := domain.BMI(weightKg, heightCm)
	if err != nil {
		return BMIResult{}, err
	}
	bmi = math.Round(bmi*10) / 10

	if _, err := s.upsert(ctx, userID, domain.CategoryBMI, day, bmi); err != nil {
		return BMIResult{}, err
	}
	return BMIResult{
		BMI:      bmi,
		Class:    domain.ClassifyBMI(bmi),
		WeightKg: weightKg,
		HeightCm: heightCm,
		Source:   w.Source,
	}, nil
}

func (s *CalculatorService) upsert(ctx context.Context, userID int64, category domain.CalculatorCategory, day string, value float64) (*domain.CalculatorSession, error) {
	sess, err := s.sessions.UpsertCalculatorSession(ctx, domain.CalculatorSession{
		UserID:   userID,
		Category: category,
		Day:      day,
		Value:    value,
	})
	if err != nil {
		return nil, wrapStoreErr(s.log, "upsert calculator session", userID, err)
	}
	if s.recorder != nil {
		s.recorder.CalculatorLogged(string(category))
	}
	s.log.DebugContext(ctx, "calculator session logged", "user_id", userID, "day", day, "category", category)
	return sess, nil
}
