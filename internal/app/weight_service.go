package app

import (
	"context"
	"fmt"
	"log/slog"

	"fitcoach/internal/domain"
)

// WeightRecorder receives a notification for every successful weight upsert.
type WeightRecorder interface {
	WeightRecorded(unit string)
}

// WeightService encapsulates the daily weight use cases. "Today" is always
// the calendar date supplied by the client, never the server clock.
type WeightService struct {
	ids      domain.IdentityResolver
	weights  domain.WeightRepository
	profiles domain.ProfileRepository
	recorder WeightRecorder
	log      *slog.Logger
}

// NewWeightService creates a WeightService backed by the given repositories.
func NewWeightService(ids domain.IdentityResolver, weights domain.WeightRepository, profiles domain.ProfileRepository) *WeightService {
	return &WeightService{ids: ids, weights: weights, profiles: profiles, log: slog.Default()}
}

// WithRecorder sets the observer notified of recorded weights.
func (s *WeightService) WithRecorder(r WeightRecorder) *WeightService {
	s.recorder = r
	return s
}

// GetTodaysWeight resolves the weight to show for clientDate. An existing
// daily entry wins and is reported locked; otherwise the profile default is
// used, falling back to 0 KG when the user has no profile.
func (s *WeightService) GetTodaysWeight(ctx context.Context, clientDate string) (domain.WeightResult, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return domain.WeightResult{}, err
	}
	day, err := domain.ParseDay(clientDate)
	if err != nil {
		return domain.WeightResult{}, err
	}

	entry, err := s.weights.FindDailyWeight(ctx, userID, day)
	if err != nil {
		return domain.WeightResult{}, s.storeErr("find daily weight", userID, err)
	}
	if entry != nil {
		return domain.WeightResult{
			Weight:   entry.Value,
			Unit:     entry.Unit,
			Source:   domain.SourceEntry,
			IsLocked: true,
		}, nil
	}

	profile, err := s.profiles.FindBodyProfile(ctx, userID)
	if err != nil {
		return domain.WeightResult{}, s.storeErr("find body profile", userID, err)
	}
	res := domain.WeightResult{Unit: domain.UnitKG, Source: domain.SourceProfile}
	if profile != nil {
		if profile.Weight > 0 {
			res.Weight = profile.Weight
		}
		if profile.Unit.Valid() {
			res.Unit = profile.Unit
		}
	}
	return res, nil
}

// IsTodaysWeightLogged reports whether an entry exists for clientDate.
func (s *WeightService) IsTodaysWeightLogged(ctx context.Context, clientDate string) (bool, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return false, err
	}
	day, err := domain.ParseDay(clientDate)
	if err != nil {
		return false, err
	}
	entry, err := s.weights.FindDailyWeight(ctx, userID, day)
	if err != nil {
		return false, s.storeErr("find daily weight", userID, err)
	}
	return entry != nil, nil
}

// RecordTodaysWeight validates and upserts the weight for clientDate.
// The bound applies to the raw value in the given unit.
func (s *WeightService) RecordTodaysWeight(ctx context.Context, clientDate string, weight float64, unit domain.WeightUnit) error {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return err
	}
	day, err := domain.ParseDay(clientDate)
	if err != nil {
		return err
	}
	if err := domain.ValidateRecordedWeight(weight); err != nil {
		return err
	}
	if !unit.Valid() {
		return fmt.Errorf("%w: unit must be \"KG\" or \"LB\"", domain.ErrValidation)
	}

	if err := s.weights.UpsertDailyWeight(ctx, userID, day, weight, unit); err != nil {
		return s.storeErr("upsert daily weight", userID, err)
	}
	if s.recorder != nil {
		s.recorder.WeightRecorded(string(unit))
	}
	s.log.DebugContext(ctx, "daily weight recorded", "user_id", userID, "day", day, "unit", unit)
	return nil
}

// ListRecent returns the most recent daily entries up to limit.
func (s *WeightService) ListRecent(ctx context.Context, limit int) ([]domain.DailyWeightEntry, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 366 {
		return nil, fmt.Errorf("%w: limit must be within [1, 366]", domain.ErrValidation)
	}
	items, err := s.weights.ListRecentDailyWeights(ctx, userID, limit)
	if err != nil {
		return nil, s.storeErr("list daily weights", userID, err)
	}
	return items, nil
}

func (s *WeightService) storeErr(op string, userID int64, err error) error {
	return wrapStoreErr(s.log, op, userID, err)
}
