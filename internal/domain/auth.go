// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Role is the account role of a user.
type Role string

// Account roles.
const (
	RoleClient               Role = "CLIENT"
	RoleFitnessTrainer       Role = "FITNESS_TRAINER"
	RolePsychologyTrainer    Role = "PSYCHOLOGY_TRAINER"
	RoleManifestationTrainer Role = "MANIFESTATION_TRAINER"
	RoleAdmin                Role = "ADMIN"
)

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleClient, RoleFitnessTrainer, RolePsychologyTrainer, RoleManifestationTrainer, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// IsTrainer reports whether r is one of the trainer roles.
func (r Role) IsTrainer() bool {
	return r == RoleFitnessTrainer || r == RolePsychologyTrainer || r == RoleManifestationTrainer
}

// User represents an authenticated user in the system.
type User struct {
	ID           int64
	Username     string
	Name         string
	Role         Role
	TrainerID    *int64
	PasswordHash string
	CreatedAt    time.Time
}

// AccountProfile is the role-independent public view of a user.
type AccountProfile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	TrainerID *int64 `json:"trainerId,omitempty"`
}

// Profile returns the public view of u.
func (u *User) Profile() AccountProfile {
	return AccountProfile{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role, TrainerID: u.TrainerID}
}

// NewUser carries the fields needed to create a user.
type NewUser struct {
	Username     string
	Name         string
	Role         Role
	TrainerID    *int64
	PasswordHash string
}

// Session represents an active user session.
type Session struct {
	Token     string
	UserID    int64
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// UserRepository defines the port for user persistence operations.
// Lookups return nil, nil when the user does not exist.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u NewUser) (*User, error)
	Count(ctx context.Context) (int, error)
	ListClientsOf(ctx context.Context, trainerID int64) ([]User, error)
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, s Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
