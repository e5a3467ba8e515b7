package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fitcoach/internal/app"
	"fitcoach/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

var (
	adminUser   = domain.User{ID: 1, Username: "root", Name: "Root", Role: domain.RoleAdmin}
	trainerUser = domain.User{ID: 2, Username: "coach", Name: "Coach", Role: domain.RoleFitnessTrainer}
	clientUser  = domain.User{ID: 3, Username: "ann", Name: "Ann", Role: domain.RoleClient, TrainerID: ptr(int64(2))}
)

func usersByID(users ...domain.User) *mockUserRepo {
	byID := map[int64]domain.User{}
	for _, u := range users {
		byID[u.ID] = u
	}
	return &mockUserRepo{
		getByIDFn: func(_ context.Context, id int64) (*domain.User, error) {
			u, ok := byID[id]
			if !ok {
				return nil, nil
			}
			return &u, nil
		},
		clientsFn: func(_ context.Context, trainerID int64) ([]domain.User, error) {
			var out []domain.User
			for _, u := range byID {
				if u.TrainerID != nil && *u.TrainerID == trainerID {
					out = append(out, u)
				}
			}
			return out, nil
		},
		countFn: func(context.Context) (int, error) { return len(byID), nil },
	}
}

func newAccountService(callerID int64, users domain.UserRepository, exercises domain.ExerciseRepository) *app.AccountService {
	return app.NewAccountService(staticIdentity{userID: callerID}, users, exercises, time.Minute, nil)
}

func TestMe_TypedPerRole(t *testing.T) {
	users := usersByID(adminUser, trainerUser, clientUser)
	ctx := context.Background()

	me, err := newAccountService(1, users, &mockExerciseRepo{}).Me(ctx)
	require.NoError(t, err)
	admin, ok := me.(domain.AdminProfile)
	require.True(t, ok, "expected AdminProfile, got %T", me)
	assert.Equal(t, 3, admin.AccountCount)

	me, err = newAccountService(2, users, &mockExerciseRepo{}).Me(ctx)
	require.NoError(t, err)
	trainer, ok := me.(domain.TrainerProfile)
	require.True(t, ok, "expected TrainerProfile, got %T", me)
	assert.Equal(t, 1, trainer.ClientCount)

	me, err = newAccountService(3, users, &mockExerciseRepo{}).Me(ctx)
	require.NoError(t, err)
	client, ok := me.(domain.ClientProfile)
	require.True(t, ok, "expected ClientProfile, got %T", me)
	require.NotNil(t, client.Trainer)
	assert.Equal(t, "coach", client.Trainer.Username)
	assert.Equal(t, "ann", client.Account().Username)
}

func TestMe_Errors(t *testing.T) {
	_, err := app.NewAccountService(anonymous, usersByID(), &mockExerciseRepo{}, time.Minute, nil).Me(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = newAccountService(42, usersByID(), &mockExerciseRepo{}).Me(context.Background())
	assert.ErrorIs(t, err, app.ErrUserNotFound)
}

func TestCreateAccount(t *testing.T) {
	users := usersByID(adminUser, trainerUser)
	var created domain.NewUser
	users.createFn = func(_ context.Context, u domain.NewUser) (*domain.User, error) {
		created = u
		return &domain.User{ID: 10, Username: u.Username, Name: u.Name, Role: u.Role, TrainerID: u.TrainerID}, nil
	}
	svc := newAccountService(1, users, &mockExerciseRepo{})

	p, err := svc.CreateAccount(context.Background(), app.CreateAccountRequest{
		Username:  "bob",
		Role:      "client",
		Password:  "longenough",
		TrainerID: ptr(int64(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.ID)
	assert.Equal(t, domain.RoleClient, p.Role)
	assert.Equal(t, "bob", created.Name)
	assert.NotEmpty(t, created.PasswordHash)
	require.NotNil(t, p.TrainerID)
	assert.Equal(t, int64(2), *p.TrainerID)
}

func TestCreateAccount_Rejected(t *testing.T) {
	users := usersByID(adminUser, trainerUser, clientUser)
	users.getByUsernameFn = func(_ context.Context, username string) (*domain.User, error) {
		if username == "ann" {
			return &clientUser, nil
		}
		return nil, nil
	}
	users.createFn = func(context.Context, domain.NewUser) (*domain.User, error) {
		t.Fatal("create must not be called")
		return nil, nil
	}

	tests := []struct {
		name   string
		caller int64
		req    app.CreateAccountRequest
		want   error
	}{
		{"not admin", 2, app.CreateAccountRequest{Username: "x", Role: domain.RoleClient}, domain.ErrForbidden},
		{"no username", 1, app.CreateAccountRequest{Role: domain.RoleClient}, domain.ErrValidation},
		{"bad role", 1, app.CreateAccountRequest{Username: "x", Role: "OWNER"}, domain.ErrValidation},
		{"taken", 1, app.CreateAccountRequest{Username: "ann", Role: domain.RoleClient}, domain.ErrValidation},
		{"trainer is client", 1, app.CreateAccountRequest{Username: "x", Role: domain.RoleClient, TrainerID: ptr(int64(3))}, domain.ErrValidation},
		{"trainer for trainer", 1, app.CreateAccountRequest{Username: "x", Role: domain.RolePsychologyTrainer, TrainerID: ptr(int64(2))}, domain.ErrValidation},
		{"short password", 1, app.CreateAccountRequest{Username: "x", Role: domain.RoleClient, Password: "abc"}, domain.ErrValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newAccountService(tc.caller, users, &mockExerciseRepo{}).CreateAccount(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClientOptions_CachedPerTrainer(t *testing.T) {
	var loads atomic.Int32
	users := usersByID(adminUser, trainerUser, clientUser)
	list := users.clientsFn
	users.clientsFn = func(ctx context.Context, trainerID int64) ([]domain.User, error) {
		loads.Add(1)
		return list(ctx, trainerID)
	}
	svc := newAccountService(2, users, &mockExerciseRepo{})

	for n := 0; n < 3; n++ {
		opts, err := svc.ClientOptions(context.Background())
		require.NoError(t, err)
		require.Len(t, opts, 1)
		assert.Equal(t, "ann", opts[0].Username)
	}
	assert.Equal(t, int32(1), loads.Load())

	_, err := newAccountService(3, users, &mockExerciseRepo{}).ClientOptions(context.Background())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClientOptions_InvalidatedOnCreate(t *testing.T) {
	var loads atomic.Int32
	users := usersByID(adminUser, trainerUser)
	users.clientsFn = func(context.Context, int64) ([]domain.User, error) {
		loads.Add(1)
		return nil, nil
	}
	users.createFn = func(_ context.Context, u domain.NewUser) (*domain.User, error) {
		return &domain.User{ID: 11, Username: u.Username, Role: u.Role, TrainerID: u.TrainerID}, nil
	}

	// One service instance, two callers resolved from the context.
	svc := app.NewAccountService(app.ContextIdentity{}, users, &mockExerciseRepo{}, time.Minute, nil)
	asTrainer := app.WithUser(context.Background(), &trainerUser)
	asAdmin := app.WithUser(context.Background(), &adminUser)

	_, err := svc.ClientOptions(asTrainer)
	require.NoError(t, err)
	_, err = svc.CreateAccount(asAdmin, app.CreateAccountRequest{Username: "new", Role: domain.RoleClient, TrainerID: ptr(int64(2))})
	require.NoError(t, err)
	_, err = svc.ClientOptions(asTrainer)
	require.NoError(t, err)

	assert.Equal(t, int32(2), loads.Load())
}

func TestClientOptions_CreateDuringLoadIsVisible(t *testing.T) {
	var loads atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	ann := domain.User{ID: 3, Username: "ann", Role: domain.RoleClient, TrainerID: ptr(int64(2))}
	bob := domain.User{ID: 11, Username: "bob", Role: domain.RoleClient, TrainerID: ptr(int64(2))}

	users := usersByID(adminUser, trainerUser)
	users.clientsFn = func(context.Context, int64) ([]domain.User, error) {
		if loads.Add(1) == 1 {
			close(started)
			<-release
			return []domain.User{ann}, nil
		}
		return []domain.User{ann, bob}, nil
	}
	users.createFn = func(_ context.Context, u domain.NewUser) (*domain.User, error) {
		return &domain.User{ID: 11, Username: u.Username, Role: u.Role, TrainerID: u.TrainerID}, nil
	}

	svc := app.NewAccountService(app.ContextIdentity{}, users, &mockExerciseRepo{}, time.Minute, nil)
	asTrainer := app.WithUser(context.Background(), &trainerUser)
	asAdmin := app.WithUser(context.Background(), &adminUser)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.ClientOptions(asTrainer)
	}()
	<-started

	_, err := svc.CreateAccount(asAdmin, app.CreateAccountRequest{Username: "bob", Role: domain.RoleClient, TrainerID: ptr(int64(2))})
	require.NoError(t, err)
	close(release)
	<-done

	opts, err := svc.ClientOptions(asTrainer)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "bob", opts[1].Username)
}

func TestCachedListsAreCopied(t *testing.T) {
	exercises := &mockExerciseRepo{
		listFn: func(context.Context) ([]domain.Exercise, error) {
			return []domain.Exercise{{ID: 1, Name: "Squat"}, {ID: 2, Name: "Plank"}}, nil
		},
	}
	svc := newAccountService(2, usersByID(trainerUser, clientUser), exercises)
	ctx := context.Background()

	items, err := svc.Exercises(ctx)
	require.NoError(t, err)
	items[0].Name = "changed"
	_ = append(items[:1], domain.Exercise{ID: 9, Name: "overwritten"})

	again, err := svc.Exercises(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Squat", again[0].Name)
	assert.Equal(t, "Plank", again[1].Name)

	clients, err := svc.ClientOptions(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	clients[0].Username = "changed"

	clients, err = svc.ClientOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann", clients[0].Username)
}

func TestExercises_CoalescedLoad(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	exercises := &mockExerciseRepo{
		listFn: func(context.Context) ([]domain.Exercise, error) {
			loads.Add(1)
			<-release
			return []domain.Exercise{{ID: 1, Name: "Squat", MuscleGroup: "legs"}}, nil
		},
	}
	svc := newAccountService(3, usersByID(clientUser), exercises)

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := svc.Exercises(context.Background())
			if err == nil {
				results[i] = len(items)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, n := range results {
		assert.Equal(t, 1, n)
	}
}

func TestExercises_ErrorsNotCached(t *testing.T) {
	fail := true
	exercises := &mockExerciseRepo{
		listFn: func(context.Context) ([]domain.Exercise, error) {
			if fail {
				return nil, errors.New("db down")
			}
			return []domain.Exercise{{ID: 1, Name: "Plank"}}, nil
		},
	}
	svc := newAccountService(3, usersByID(clientUser), exercises)

	_, err := svc.Exercises(context.Background())
	assert.ErrorIs(t, err, domain.ErrStore)

	fail = false
	items, err := svc.Exercises(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = app.NewAccountService(anonymous, usersByID(), exercises, time.Minute, nil).Exercises(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
