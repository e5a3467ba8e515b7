// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"fitcoach/internal/domain"
)

// ErrDuplicateUsername mirrors the unique constraint of the SQL stores.
var ErrDuplicateUsername = errors.New("memory: username already exists")

type dayKey struct {
	userID int64
	day    string
}

type sessionKey struct {
	userID   int64
	category domain.CalculatorCategory
	day      string
}

// DB implements an in-memory database storage.
type DB struct {
	mu         sync.Mutex
	weights    map[dayKey]domain.DailyWeightEntry
	profiles   map[int64]domain.UserBodyProfile
	calculator map[sessionKey]domain.CalculatorSession
	users      []*domain.User
	sessions   map[string]*domain.Session
	exercises  []domain.Exercise

	calculatorIDCounter int64
	userIDCounter       int64
}

// New creates a new in-memory database seeded with the exercise catalog.
func New() *DB {
	return &DB{
		weights:    make(map[dayKey]domain.DailyWeightEntry),
		profiles:   make(map[int64]domain.UserBodyProfile),
		calculator: make(map[sessionKey]domain.CalculatorSession),
		sessions:   make(map[string]*domain.Session),
		exercises: []domain.Exercise{
			{ID: 1, Name: "Back Squat", MuscleGroup: "legs"},
			{ID: 2, Name: "Romanian Deadlift", MuscleGroup: "legs"},
			{ID: 3, Name: "Bench Press", MuscleGroup: "chest"},
			{ID: 4, Name: "Push-up", MuscleGroup: "chest"},
			{ID: 5, Name: "Pull-up", MuscleGroup: "back"},
			{ID: 6, Name: "Bent-over Row", MuscleGroup: "back"},
			{ID: 7, Name: "Overhead Press", MuscleGroup: "shoulders"},
			{ID: 8, Name: "Plank", MuscleGroup: "core"},
		},
	}
}

// Ensure interfaces are met.
var (
	_ domain.WeightRepository            = (*DB)(nil)
	_ domain.ProfileRepository           = (*DB)(nil)
	_ domain.CalculatorSessionRepository = (*DB)(nil)
	_ domain.UserRepository              = (*DB)(nil)
	_ domain.ExerciseRepository          = (*DB)(nil)
	_ domain.SessionRepository           = (*SessionRepo)(nil)
)

// Ping always succeeds.
func (db *DB) Ping(context.Context) error { return nil }

// Close is a no-op.
func (db *DB) Close() error { return nil }

// --- WeightRepository ---

// FindDailyWeight returns the entry for (userID, day), or nil.
func (db *DB) FindDailyWeight(ctx context.Context, userID int64, day string) (*domain.DailyWeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	e, ok := db.weights[dayKey{userID, day}]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// UpsertDailyWeight creates or overwrites the entry for (userID, day).
func (db *DB) UpsertDailyWeight(ctx context.Context, userID int64, day string, value float64, unit domain.WeightUnit) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := time.Now().UTC()
	k := dayKey{userID, day}
	e, ok := db.weights[k]
	if !ok {
		e = domain.DailyWeightEntry{UserID: userID, Day: day, CreatedAt: now}
	}
	e.Value = value
	e.Unit = unit
	e.UpdatedAt = now
	db.weights[k] = e
	return nil
}

// ListRecentDailyWeights returns the latest entries of a user, newest first.
func (db *DB) ListRecentDailyWeights(ctx context.Context, userID int64, limit int) ([]domain.DailyWeightEntry, error) {
	out := db.userWeights(userID, func(string) bool { return true })
	sort.Slice(out, func(i, j int) bool { return out[i].Day > out[j].Day })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListDailyWeightsBetween returns the entries within [from, to], oldest first.
func (db *DB) ListDailyWeightsBetween(ctx context.Context, userID int64, from, to string) ([]domain.DailyWeightEntry, error) {
	out := db.userWeights(userID, func(day string) bool { return day >= from && day <= to })
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

func (db *DB) userWeights(userID int64, keep func(day string) bool) []domain.DailyWeightEntry {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.DailyWeightEntry
	for k, e := range db.weights {
		if k.userID == userID && keep(k.day) {
			out = append(out, e)
		}
	}
	return out
}

// --- ProfileRepository ---

// FindBodyProfile returns the profile of userID, or nil.
func (db *DB) FindBodyProfile(ctx context.Context, userID int64) (*domain.UserBodyProfile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// UpsertBodyProfile creates or replaces the profile of p.UserID.
func (db *DB) UpsertBodyProfile(ctx context.Context, p domain.UserBodyProfile) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p.UpdatedAt = time.Now().UTC()
	db.profiles[p.UserID] = p
	return nil
}

// --- CalculatorSessionRepository ---

// FindCalculatorSession returns the session for (userID, category, day), or nil.
func (db *DB) FindCalculatorSession(ctx context.Context, userID int64, category domain.CalculatorCategory, day string) (*domain.CalculatorSession, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	s, ok := db.calculator[sessionKey{userID, category, day}]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// UpsertCalculatorSession stores s, keeping the ID of an earlier session of
// the same (user, category, day).
func (db *DB) UpsertCalculatorSession(ctx context.Context, s domain.CalculatorSession) (*domain.CalculatorSession, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := sessionKey{s.UserID, s.Category, s.Day}
	if prev, ok := db.calculator[k]; ok {
		s.ID = prev.ID
	} else {
		db.calculatorIDCounter++
		s.ID = db.calculatorIDCounter
	}
	s.CreatedAt = time.Now().UTC()
	db.calculator[k] = s
	return &s, nil
}

// --- ExerciseRepository ---

// ListExercises returns the exercise catalog ordered by muscle group and name.
func (db *DB) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	db.mu.Lock()
	out := append([]domain.Exercise(nil), db.exercises...)
	db.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].MuscleGroup != out[j].MuscleGroup {
			return out[i].MuscleGroup < out[j].MuscleGroup
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == nu.Username {
			return nil, ErrDuplicateUsername
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     nu.Username,
		Name:         nu.Name,
		Role:         nu.Role,
		TrainerID:    nu.TrainerID,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	cp := *u
	return &cp, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// ListClientsOf returns the clients assigned to trainerID, ordered by name.
func (db *DB) ListClientsOf(ctx context.Context, trainerID int64) ([]domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.User
	for _, u := range db.users {
		if u.Role == domain.RoleClient && u.TrainerID != nil && *u.TrainerID == trainerID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// --- SessionRepository ---

// SessionRepo implements domain.SessionRepository on top of DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo returns the session repository of db.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create stores a session.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[s.Token] = &s
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s, ok := r.db.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all sessions that expired before now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for token, s := range r.db.sessions {
		if s.ExpiresAt.Before(now) {
			delete(r.db.sessions, token)
			n++
		}
	}
	return n, nil
}
