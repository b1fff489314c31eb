package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/profile"
)

type ProfileService struct {
	profiles profile.Repository
	logger   *slog.Logger
}

func NewProfileService(profiles profile.Repository, logger *slog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// Resolve returns the profile for uid, creating a default student profile on
// first authenticated access. The create is an upsert keyed by uid, so two
// sessions resolving the same fresh uid converge on one row.
func (s *ProfileService) Resolve(ctx context.Context, uid common.UUID, displayName, email string) (*profile.Profile, error) {
	existing, err := s.profiles.GetByUID(ctx, uid)
	if err == nil {
		return existing, nil
	}
	if !common.Is(err, common.CodeNotFound) {
		return nil, common.NewError(common.CodeUnavailable, "failed to resolve profile", err)
	}

	now := time.Now().UTC()
	created, err := s.profiles.Upsert(ctx, profile.Profile{
		UID:         uid,
		DisplayName: bestEffortName(displayName, email),
		Email:       email,
		Role:        profile.RoleStudent,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, common.NewError(common.CodeUnavailable, "failed to create profile", err)
	}
	return created, nil
}

// RoleOf is the degraded-mode role lookup: a fetch failure falls back to
// student so navigation keeps working instead of crashing.
func (s *ProfileService) RoleOf(ctx context.Context, uid common.UUID) profile.Role {
	p, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		s.logger.Warn("profile fetch failed, falling back to student role",
			slog.String("uid", uid.String()), slog.String("error", err.Error()))
		return profile.RoleStudent
	}
	return p.Role
}

func (s *ProfileService) Get(ctx context.Context, uid common.UUID) (*profile.Profile, error) {
	return s.profiles.GetByUID(ctx, uid)
}

// Update mutates the caller's own profile. Ownership is established by the
// session: uid always comes from the authenticated context, never the body.
func (s *ProfileService) Update(ctx context.Context, uid common.UUID, p profile.Profile) (*profile.Profile, error) {
	current, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p.Role != "" && !p.Role.Valid() {
		return nil, common.NewValidationError("invalid role", map[string]string{"role": "role must be student or recruiter"})
	}
	if p.Role == "" {
		p.Role = current.Role
	}
	if strings.TrimSpace(p.DisplayName) == "" {
		p.DisplayName = current.DisplayName
	}
	p.UID = uid
	p.Email = current.Email
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	return s.profiles.Update(ctx, p)
}

func bestEffortName(displayName, email string) string {
	name := strings.TrimSpace(displayName)
	if name != "" {
		return name
	}
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return "User"
}
