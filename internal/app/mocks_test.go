package app_test

import (
	"context"
	"time"

	"fitcoach/internal/domain"
)

type staticIdentity struct {
	userID int64
}

func (s staticIdentity) AuthenticatedUserID(context.Context) (int64, bool) {
	return s.userID, s.userID != 0
}

var anonymous = staticIdentity{}

type mockWeightRepo struct {
	findFn    func(ctx context.Context, userID int64, day string) (*domain.DailyWeightEntry, error)
	upsertFn  func(ctx context.Context, userID int64, day string, v float64, u domain.WeightUnit) error
	recentFn  func(ctx context.Context, userID int64, limit int) ([]domain.DailyWeightEntry, error)
	betweenFn func(ctx context.Context, userID int64, from, to string) ([]domain.DailyWeightEntry, error)
}

func (m *mockWeightRepo) FindDailyWeight(ctx context.Context, userID int64, day string) (*domain.DailyWeightEntry, error) {
	if m.findFn != nil {
		return m.findFn(ctx, userID, day)
	}
	return nil, nil
}

func (m *mockWeightRepo) UpsertDailyWeight(ctx context.Context, userID int64, day string, v float64, u domain.WeightUnit) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, userID, day, v, u)
	}
	return nil
}

func (m *mockWeightRepo) ListRecentDailyWeights(ctx context.Context, userID int64, limit int) ([]domain.DailyWeightEntry, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockWeightRepo) ListDailyWeightsBetween(ctx context.Context, userID int64, from, to string) ([]domain.DailyWeightEntry, error) {
	if m.betweenFn != nil {
		return m.betweenFn(ctx, userID, from, to)
	}
	return nil, nil
}

type mockProfileRepo struct {
	findFn   func(ctx context.Context, userID int64) (*domain.UserBodyProfile, error)
	upsertFn func(ctx context.Context, p domain.UserBodyProfile) error
}

func (m *mockProfileRepo) FindBodyProfile(ctx context.Context, userID int64) (*domain.UserBodyProfile, error) {
	if m.findFn != nil {
		return m.findFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepo) UpsertBodyProfile(ctx context.Context, p domain.UserBodyProfile) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	return nil
}

type mockCalculatorRepo struct {
	findFn   func(ctx context.Context, userID int64, c domain.CalculatorCategory, day string) (*domain.CalculatorSession, error)
	upsertFn func(ctx context.Context, s domain.CalculatorSession) (*domain.CalculatorSession, error)
}

func (m *mockCalculatorRepo) FindCalculatorSession(ctx context.Context, userID int64, c domain.CalculatorCategory, day string) (*domain.CalculatorSession, error) {
	if m.findFn != nil {
		return m.findFn(ctx, userID, c, day)
	}
	return nil, nil
}

func (m *mockCalculatorRepo) UpsertCalculatorSession(ctx context.Context, s domain.CalculatorSession) (*domain.CalculatorSession, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, s)
	}
	s.ID = 1
	return &s, nil
}

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, u domain.NewUser) (*domain.User, error)
	countFn         func(ctx context.Context) (int, error)
	clientsFn       func(ctx context.Context, trainerID int64) ([]domain.User, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.NewUser) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	return &domain.User{ID: 1, Username: u.Username, Name: u.Name, Role: u.Role, TrainerID: u.TrainerID, PasswordHash: u.PasswordHash}, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockUserRepo) ListClientsOf(ctx context.Context, trainerID int64) ([]domain.User, error) {
	if m.clientsFn != nil {
		return m.clientsFn(ctx, trainerID)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, s domain.Session) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, s domain.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx, now)
	}
	return 0, nil
}

type mockExerciseRepo struct {
	listFn func(ctx context.Context) ([]domain.Exercise, error)
}

func (m *mockExerciseRepo) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
