package app_test

import (
	"context"
	"errors"
	"testing"

	"fitcoach/internal/app"
	"fitcoach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionKey struct {
	category domain.CalculatorCategory
	day      string
}

func mapCalculatorRepo(store map[sessionKey]domain.CalculatorSession) *mockCalculatorRepo {
	return &mockCalculatorRepo{
		findFn: func(_ context.Context, _ int64, c domain.CalculatorCategory, day string) (*domain.CalculatorSession, error) {
			s, ok := store[sessionKey{c, day}]
			if !ok {
				return nil, nil
			}
			return &s, nil
		},
		upsertFn: func(_ context.Context, s domain.CalculatorSession) (*domain.CalculatorSession, error) {
			s.ID = int64(len(store) + 1)
			store[sessionKey{s.Category, s.Day}] = s
			return &s, nil
		},
	}
}

type categoryRecorder struct {
	categories []string
}

func (c *categoryRecorder) CalculatorLogged(category string) {
	c.categories = append(c.categories, category)
}

func newCalculatorService(ids domain.IdentityResolver, sessions domain.CalculatorSessionRepository, weights domain.WeightRepository, profiles domain.ProfileRepository) *app.CalculatorService {
	ws := app.NewWeightService(ids, weights, profiles)
	return app.NewCalculatorService(ids, sessions, profiles, ws)
}

func TestIsTodaysCategoryLogged_Independent(t *testing.T) {
	store := map[sessionKey]domain.CalculatorSession{}
	svc := newCalculatorService(staticIdentity{userID: 3}, mapCalculatorRepo(store), &mockWeightRepo{}, &mockProfileRepo{})
	ctx := context.Background()

	_, err := svc.LogSession(ctx, today, domain.CategoryBMI, 23.1)
	require.NoError(t, err)

	bmi, err := svc.IsTodaysCategoryLogged(ctx, today, domain.CategoryBMI)
	require.NoError(t, err)
	assert.True(t, bmi)

	bodyFat, err := svc.IsTodaysCategoryLogged(ctx, today, domain.CategoryBodyFat)
	require.NoError(t, err)
	assert.False(t, bodyFat)

	_, err = svc.LogSession(ctx, today, domain.CategoryBodyFat, 18)
	require.NoError(t, err)
	bodyFat, err = svc.IsTodaysCategoryLogged(ctx, today, domain.CategoryBodyFat)
	require.NoError(t, err)
	assert.True(t, bodyFat)

	other, err := svc.IsTodaysCategoryLogged(ctx, "2026-03-13", domain.CategoryBMI)
	require.NoError(t, err)
	assert.False(t, other)
}

func TestLogSession_OverwritesSameDay(t *testing.T) {
	store := map[sessionKey]domain.CalculatorSession{}
	rec := &categoryRecorder{}
	svc := newCalculatorService(staticIdentity{userID: 3}, mapCalculatorRepo(store), &mockWeightRepo{}, &mockProfileRepo{}).WithRecorder(rec)
	ctx := context.Background()

	_, err := svc.LogSession(ctx, today, "body_fat", 20)
	require.NoError(t, err)
	_, err = svc.LogSession(ctx, today, domain.CategoryBodyFat, 19.5)
	require.NoError(t, err)

	require.Len(t, store, 1)
	assert.Equal(t, 19.5, store[sessionKey{domain.CategoryBodyFat, today}].Value)
	assert.Equal(t, []string{"BODY_FAT", "BODY_FAT"}, rec.categories)
}

func TestLogSession_Validation(t *testing.T) {
	svc := newCalculatorService(staticIdentity{userID: 3}, &mockCalculatorRepo{
		upsertFn: func(context.Context, domain.CalculatorSession) (*domain.CalculatorSession, error) {
			t.Fatal("store must not be called on invalid input")
			return nil, nil
		},
	}, &mockWeightRepo{}, &mockProfileRepo{})

	tests := []struct {
		name     string
		date     string
		category domain.CalculatorCategory
		value    float64
	}{
		{"unknown category", today, "VO2MAX", 1},
		{"negative value", today, domain.CategoryBMI, -1},
		{"bad date", "2026-13-01", domain.CategoryBMI, 22},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.LogSession(context.Background(), tc.date, tc.category, tc.value)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCalculatorService_Unauthorized(t *testing.T) {
	store := map[sessionKey]domain.CalculatorSession{
		{domain.CategoryBMI, today}: {UserID: 3, Category: domain.CategoryBMI, Day: today, Value: 22},
	}
	svc := newCalculatorService(anonymous, mapCalculatorRepo(store), &mockWeightRepo{}, &mockProfileRepo{})
	ctx := context.Background()

	_, err := svc.IsTodaysCategoryLogged(ctx, today, domain.CategoryBMI)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.LogSession(ctx, today, domain.CategoryBMI, 22)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.CalculateBMI(ctx, today)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestIsTodaysCategoryLogged_StoreFailure(t *testing.T) {
	repo := &mockCalculatorRepo{
		findFn: func(context.Context, int64, domain.CalculatorCategory, string) (*domain.CalculatorSession, error) {
			return nil, errors.New("db down")
		},
	}
	svc := newCalculatorService(staticIdentity{userID: 3}, repo, &mockWeightRepo{}, &mockProfileRepo{})

	_, err := svc.IsTodaysCategoryLogged(context.Background(), today, domain.CategoryBodyFat)
	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestCalculateBMI(t *testing.T) {
	store := map[sessionKey]domain.CalculatorSession{}
	weights := &mockWeightRepo{
		findFn: func(context.Context, int64, string) (*domain.DailyWeightEntry, error) {
			return &domain.DailyWeightEntry{Value: 154.32, Unit: domain.UnitLB}, nil
		},
	}
	profiles := &mockProfileRepo{
		findFn: func(context.Context, int64) (*domain.UserBodyProfile, error) {
			return &domain.UserBodyProfile{Weight: 90, HeightCm: 175, Unit: domain.UnitKG}, nil
		},
	}
	svc := newCalculatorService(staticIdentity{userID: 3}, mapCalculatorRepo(store), weights, profiles)

	res, err := svc.CalculateBMI(context.Background(), today)
	require.NoError(t, err)
	assert.InDelta(t, 70.0, res.WeightKg, 0.01)
	assert.Equal(t, 22.9, res.BMI)
	assert.Equal(t, domain.BMINormal, res.Class)
	assert.Equal(t, domain.SourceEntry, res.Source)

	logged, ok := store[sessionKey{domain.CategoryBMI, today}]
	require.True(t, ok)
	assert.Equal(t, 22.9, logged.Value)
}

func TestCalculateBMI_MissingHeight(t *testing.T) {
	profiles := &mockProfileRepo{
		findFn: func(context.Context, int64) (*domain.UserBodyProfile, error) {
			return &domain.UserBodyProfile{Weight: 80, Unit: domain.UnitKG}, nil
		},
	}
	svc := newCalculatorService(staticIdentity{userID: 3}, &mockCalculatorRepo{}, &mockWeightRepo{}, profiles)

	_, err := svc.CalculateBMI(context.Background(), today)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
