package app

import (
	"context"
	"log/slog"

	"fitcoach/internal/domain"
)

// ProfileService reads and updates the body profile of the current user.
type ProfileService struct {
	ids      domain.IdentityResolver
	profiles domain.ProfileRepository
	log      *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(ids domain.IdentityResolver, profiles domain.ProfileRepository) *ProfileService {
	return &ProfileService{ids: ids, profiles: profiles, log: slog.Default()}
}

// GetProfile returns the stored profile, or an empty KG profile when none exists.
func (s *ProfileService) GetProfile(ctx context.Context) (domain.UserBodyProfile, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return domain.UserBodyProfile{}, err
	}
	p, err := s.profiles.FindBodyProfile(ctx, userID)
	if err != nil {
		return domain.UserBodyProfile{}, wrapStoreErr(s.log, "find body profile", userID, err)
	}
	if p == nil {
		return domain.UserBodyProfile{UserID: userID, Unit: domain.UnitKG}, nil
	}
	return *p, nil
}

// UpdateProfile validates and stores p for the current user.
func (s *ProfileService) UpdateProfile(ctx context.Context, p domain.UserBodyProfile) (domain.UserBodyProfile, error) {
	userID, err := resolveUser(ctx, s.ids)
	if err != nil {
		return domain.UserBodyProfile{}, err
	}
	if err := p.Validate(); err != nil {
		return domain.UserBodyProfile{}, err
	}
	p.UserID = userID
	if err := s.profiles.UpsertBodyProfile(ctx, p); err != nil {
		return domain.UserBodyProfile{}, wrapStoreErr(s.log, "upsert body profile", userID, err)
	}
	return p, nil
}
