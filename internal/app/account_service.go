package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"fitcoach/internal/cache"
	"fitcoach/internal/domain"
)

// CreateAccountRequest carries the fields an admin supplies for a new account.
// An empty Password creates an SSO-only account.
type CreateAccountRequest struct {
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	Password  string      `json:"password"`
	TrainerID *int64      `json:"trainerId"`
}

// AccountService serves account views and the cached lookup lists.
type AccountService struct {
	ids       domain.IdentityResolver
	users     domain.UserRepository
	exercises domain.ExerciseRepository
	clients   *cache.Group[[]domain.AccountProfile]
	catalog   *cache.Group[[]domain.Exercise]
	log       *slog.Logger
}

// NewAccountService creates an AccountService. Client lists and the exercise
// catalog are cached for ttl; obs may be nil.
func NewAccountService(ids domain.IdentityResolver, users domain.UserRepository, exercises domain.ExerciseRepository, ttl time.Duration, obs cache.Observer) *AccountService {
	return &AccountService{
		ids:       ids,
		users:     users,
		exercises: exercises,
		clients:   cache.New[[]domain.AccountProfile]("client_options", ttl, obs),
		catalog:   cache.New[[]domain.Exercise]("exercises", ttl, obs),
		log:       slog.Default(),
	}
}

// Me returns the typed profile of the current user.
func (s *AccountService) Me(ctx context.Context) (domain.RoleProfile, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case user.Role == domain.RoleAdmin:
		n, err := s.users.Count(ctx)
		if err != nil {
			return nil, wrapStoreErr(s.log, "count users", user.ID, err)
		}
		return domain.AdminProfile{AccountProfile: user.Profile(), AccountCount: n}, nil
	case user.Role.IsTrainer():
		clients, err := s.clientsOf(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		return domain.TrainerProfile{AccountProfile: user.Profile(), ClientCount: len(clients)}, nil
	default:
		p := domain.ClientProfile{AccountProfile: user.Profile()}
		if user.TrainerID != nil {
			trainer, err := s.users.GetByID(ctx, *user.TrainerID)
			if err != nil {
				return nil, wrapStoreErr(s.log, "get trainer", user.ID, err)
			}
			if trainer != nil {
				tp := trainer.Profile()
				p.Trainer = &tp
			}
		}
		return p, nil
	}
}

// CreateAccount creates an account of any role. Only admins may call it.
func (s *AccountService) CreateAccount(ctx context.Context, req CreateAccountRequest) (domain.AccountProfile, error) {
	caller, err := s.currentUser(ctx)
	if err != nil {
		return domain.AccountProfile{}, err
	}
	if caller.Role != domain.RoleAdmin {
		return domain.AccountProfile{}, fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}

	nu, err := s.validateNewAccount(ctx, req)
	if err != nil {
		return domain.AccountProfile{}, err
	}
	user, err := s.users.Create(ctx, nu)
	if err != nil {
		return domain.AccountProfile{}, wrapStoreErr(s.log, "create user", caller.ID, err)
	}
	if user.TrainerID != nil {
		s.clients.Invalidate(trainerKey(*user.TrainerID))
	}
	s.log.InfoContext(ctx, "account created", "user_id", user.ID, "role", user.Role, "by", caller.ID)
	return user.Profile(), nil
}

// ClientOptions lists the clients assigned to the calling trainer.
func (s *AccountService) ClientOptions(ctx context.Context) ([]domain.AccountProfile, error) {
	caller, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !caller.Role.IsTrainer() {
		return nil, fmt.Errorf("%w: trainer role required", domain.ErrForbidden)
	}
	clients, err := s.clientsOf(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(clients), nil
}

// Exercises returns the exercise catalog.
func (s *AccountService) Exercises(ctx context.Context) ([]domain.Exercise, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.Get(ctx, "all", func(ctx context.Context) ([]domain.Exercise, error) {
		items, err := s.exercises.ListExercises(ctx)
		if err != nil {
			return nil, wrapStoreErr(s.log, "list exercises", userID, err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (s *AccountService) clientsOf(ctx context.Context, trainerID int64) ([]domain.AccountProfile, error) {
	return s.clients.Get(ctx, trainerKey(trainerID), func(ctx context.Context) ([]domain.AccountProfile, error) {
		users, err := s.users.ListClientsOf(ctx, trainerID)
		if err != nil {
			return nil, wrapStoreErr(s.log, "list clients", trainerID, err)
		}
		out := make([]domain.AccountProfile, 0, len(users))
		for i := range users {
			out = append(out, users[i].Profile())
		}
		return out, nil
	})
}

func (s *AccountService) validateNewAccount(ctx context.Context, req CreateAccountRequest) (domain.NewUser, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return domain.NewUser{}, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	role, err := domain.ParseRole(string(req.Role))
	if err != nil {
		return domain.NewUser{}, err
	}
	nu := domain.NewUser{Username: username, Name: strings.TrimSpace(req.Name), Role: role}
	if nu.Name == "" {
		nu.Name = username
	}

	if req.TrainerID != nil {
		if role != domain.RoleClient {
			return domain.NewUser{}, fmt.Errorf("%w: only clients have a trainer", domain.ErrValidation)
		}
		trainer, err := s.users.GetByID(ctx, *req.TrainerID)
		if err != nil {
			return domain.NewUser{}, wrapStoreErr(s.log, "get trainer", *req.TrainerID, err)
		}
		if trainer == nil || !trainer.Role.IsTrainer() {
			return domain.NewUser{}, fmt.Errorf("%w: trainer %d does not exist", domain.ErrValidation, *req.TrainerID)
		}
		nu.TrainerID = req.TrainerID
	}

	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return domain.NewUser{}, wrapStoreErr(s.log, "get user by username", 0, err)
	} else if existing != nil {
		return domain.NewUser{}, fmt.Errorf("%w: username %q is taken", domain.ErrValidation, username)
	}

	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return domain.NewUser{}, err
		}
		nu.PasswordHash = hash
	}
	return nu, nil
}

func (s *AccountService) currentUser(ctx context.Context) (*domain.User, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, wrapStoreErr(s.log, "get user by id", userID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func trainerKey(id int64) string {
	return "trainer:" + strconv.FormatInt(id, 10)
}
