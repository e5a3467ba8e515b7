// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fitcoach/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is used when NewAuthService is given a non-positive TTL.
const DefaultSessionTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = fmt.Errorf("%w: session not found", domain.ErrUnauthorized)
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user not found", domain.ErrUnauthorized)
	// ErrUsersExist is returned by CreateInitialUser once any account exists.
	ErrUsersExist = errors.New("users already exist")
)

// AuthService handles authentication and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	ttl      time.Duration
	now      func() time.Time
	log      *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
		log:      slog.Default(),
	}
}

// SessionTTL is the lifetime of new sessions.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Login authenticates a user and creates a session.
func (s *AuthService) Login(ctx context.Context, username, password, userAgent, ip string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", wrapStoreErr(s.log, "get user by username", 0, err)
	}
	// SSO-provisioned accounts have no password and cannot log in locally.
	if user == nil || user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.newSession(ctx, user, userAgent, ip)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return wrapStoreErr(s.log, "delete session", 0, err)
	}
	return nil
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, wrapStoreErr(s.log, "get session", 0, err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.now().After(session.ExpiresAt) || session.UserAgent != userAgent {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, wrapStoreErr(s.log, "get user by id", session.UserID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// CreateInitialUser creates the first account, an admin, if no users exist.
func (s *AuthService) CreateInitialUser(ctx context.Context, username, password string) (*domain.User, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, wrapStoreErr(s.log, "count users", 0, err)
	}
	if count > 0 {
		return nil, ErrUsersExist
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, domain.NewUser{
		Username:     username,
		Name:         username,
		Role:         domain.RoleAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, wrapStoreErr(s.log, "create user", 0, err)
	}
	s.log.InfoContext(ctx, "bootstrap admin created", "username", username, "user_id", user.ID)
	return user, nil
}

// ValidateForwardAuth resolves the user named by the Remote-User header of a
// forward-auth proxy. Unknown users are provisioned as clients.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, remoteUser string) (*domain.User, error) {
	remoteUser = strings.TrimSpace(remoteUser)
	if remoteUser == "" {
		return nil, fmt.Errorf("%w: no remote user header", domain.ErrUnauthorized)
	}
	return s.provision(ctx, remoteUser, remoteUser)
}

// LoginWithUser creates a session for an already authenticated user (e.g. via SSO).
func (s *AuthService) LoginWithUser(ctx context.Context, username, name, userAgent, ip string) (string, error) {
	if username == "" {
		return "", fmt.Errorf("%w: empty username", domain.ErrUnauthorized)
	}
	user, err := s.provision(ctx, username, name)
	if err != nil {
		return "", err
	}
	return s.newSession(ctx, user, userAgent, ip)
}

// SweepExpiredSessions removes every session past its expiry.
func (s *AuthService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, wrapStoreErr(s.log, "delete expired sessions", 0, err)
	}
	return n, nil
}

// RunSessionSweeper calls SweepExpiredSessions every interval until ctx is done.
func (s *AuthService) RunSessionSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepExpiredSessions(ctx)
			if err != nil {
				continue
			}
			if n > 0 {
				s.log.InfoContext(ctx, "expired sessions removed", "count", n)
			}
		}
	}
}

func (s *AuthService) provision(ctx context.Context, username, name string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, wrapStoreErr(s.log, "get user by username", 0, err)
	}
	if user != nil {
		return user, nil
	}
	if name == "" {
		name = username
	}

	// Empty password hash: provisioned users log in via SSO only.
	user, err = s.users.Create(ctx, domain.NewUser{Username: username, Name: name, Role: domain.RoleClient})
	if err != nil {
		// Lost a race against a concurrent provision of the same name.
		if again, gerr := s.users.GetByUsername(ctx, username); gerr == nil && again != nil {
			return again, nil
		}
		return nil, wrapStoreErr(s.log, "create user", 0, err)
	}
	s.log.InfoContext(ctx, "user provisioned", "username", username, "user_id", user.ID)
	return user, nil
}

func (s *AuthService) newSession(ctx context.Context, user *domain.User, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	err = s.sessions.Create(ctx, domain.Session{
		Token:     token,
		UserID:    user.ID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	if err != nil {
		return "", wrapStoreErr(s.log, "create session", user.ID, err)
	}
	return token, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("%w: password must have at least 8 characters", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GenerateState returns a random value for the OAuth2 state parameter.
func GenerateState() (string, error) {
	return generateToken()
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
