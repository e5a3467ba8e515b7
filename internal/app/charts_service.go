package app

import (
	"context"
	"fmt"
	"log/slog"

	"fitcoach/internal/domain"
)

// MaxChartDays bounds the window of GetDaily.
const MaxChartDays = 366

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	ids     domain.IdentityResolver
	weights domain.WeightRepository
	log     *slog.Logger
}

// NewChartsService creates a ChartsService backed by the given repository.
func NewChartsService(ids domain.IdentityResolver, weights domain.WeightRepository) *ChartsService {
	return &ChartsService{ids: ids, weights: weights, log: slog.Default()}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day    string       `json:"day"`
	Weight *WeightPoint `json:"weight"`
}

// WeightPoint is the optional weight value within a DayPoint.
type WeightPoint struct {
	Value float64           `json:"value"`
	Unit  domain.WeightUnit `json:"unit"`
	Label string            `json:"label"`
}

// GetDaily returns one point per day for the days days ending at clientDate,
// oldest first, with weights converted to unit. days is clamped to [1, MaxChartDays].
func (s *ChartsService) GetDaily(ctx context.Context, clientDate string, days int, unit domain.WeightUnit) ([]DayPoint, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDay(clientDate)
	if err != nil {
		return nil, err
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: unit must be \"KG\" or \"LB\"", domain.ErrValidation)
	}
	days = max(1, min(days, MaxChartDays))

	start, err := domain.AddDays(end, -(days - 1))
	if err != nil {
		return nil, err
	}
	entries, err := s.weights.ListDailyWeightsBetween(ctx, userID, start, end)
	if err != nil {
		return nil, wrapStoreErr(s.log, "list daily weights between", userID, err)
	}
	byDay := make(map[string]domain.DailyWeightEntry, len(entries))
	for _, e := range entries {
		byDay[e.Day] = e
	}

	points := make([]DayPoint, 0, days)
	for i := 0; i < days; i++ {
		day, err := domain.AddDays(start, i)
		if err != nil {
			return nil, err
		}
		p := DayPoint{Day: day}
		if e, ok := byDay[day]; ok {
			v := domain.ConvertWeight(e.Value, e.Unit, unit)
			p.Weight = &WeightPoint{Value: v, Unit: unit, Label: domain.FormatWeight(v, unit)}
		}
		points = append(points, p)
	}
	return points, nil
}
