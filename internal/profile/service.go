package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nekogravitycat/tennis-league-backend/internal/db"
)

// CreateInput carries the self-service profile form.
type CreateInput struct {
	FirstName  string
	LastName   string
	Role       Role
	Phone      *string
	SkillLevel SkillLevel
}

// Service resolves authenticated identities to profiles and gates every other component.
type Service interface {
	GetCurrent(ctx context.Context, externalUserID string) (*Profile, error)
	Create(ctx context.Context, externalUserID string, in CreateInput) (*Profile, error)

	// RequireRole returns the caller's profile when its role is one of roles.
	RequireRole(ctx context.Context, externalUserID string, roles ...Role) (*Profile, error)
	// RequireProfile returns the caller's profile regardless of role.
	RequireProfile(ctx context.Context, externalUserID string) (*Profile, error)

	ListAll(ctx context.Context, actorID string) ([]*Profile, error)
	AssignRole(ctx context.Context, actorID, targetUserID string, role Role) (*Profile, error)
	ToggleActive(ctx context.Context, actorID, targetUserID string) (bool, error)
	BackfillSkillLevel(ctx context.Context, actorID string) (int, error)
	ListActivePlayers(ctx context.Context, actorID string) ([]*Profile, error)
	ListMatchmakers(ctx context.Context, actorID string) ([]*Profile, error)

	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*Profile, error)
}

type service struct {
	repo   Repository
	tx     db.Transactor
	logger *slog.Logger
}

// NewService creates a new profile service. A nil logger falls back to slog.Default.
func NewService(repo Repository, tx db.Transactor, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{repo: repo, tx: tx, logger: logger}
}

func (s *service) GetCurrent(ctx context.Context, externalUserID string) (*Profile, error) {
	return s.RequireProfile(ctx, externalUserID)
}

func (s *service) Create(ctx context.Context, externalUserID string, in CreateInput) (*Profile, error) {
	if externalUserID == "" {
		return nil, ErrUnauthenticated
	}

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.FirstName == "" || in.LastName == "" {
		return nil, ErrNameRequired
	}
	if _, err := ParseRole(string(in.Role)); err != nil {
		return nil, err
	}
	if _, err := ParseSkillLevel(string(in.SkillLevel)); err != nil {
		return nil, err
	}

	level := in.SkillLevel
	p := &Profile{
		ExternalUserID: externalUserID,
		Role:           in.Role,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Phone:          in.Phone,
		SkillLevel:     &level,
		IsActive:       true,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByExternalUserID(ctx, externalUserID); err == nil {
			return ErrProfileExists
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if err := s.checkBootstrap(ctx, in.Role); err != nil {
			return err
		}

		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile created",
		slog.String("profile_id", p.ID),
		slog.String("role", string(p.Role)),
	)
	return p, nil
}

// checkBootstrap allows players freely and exactly one admin created without an existing admin.
// Must run inside a transaction so the lock covers the following insert.
func (s *service) checkBootstrap(ctx context.Context, role Role) error {
	switch role {
	case RolePlayer:
		return nil
	case RoleAdmin:
		if err := s.repo.LockRoleBootstrap(ctx); err != nil {
			return err
		}
		admins, err := s.repo.CountByRole(ctx, RoleAdmin)
		if err != nil {
			return err
		}
		if admins == 0 {
			return nil
		}
		return ErrRoleElevation
	case RoleOrganizer, RoleMatchmaker:
		return ErrRoleElevation
	default:
		return ErrInvalidRole
	}
}

func (s *service) RequireRole(ctx context.Context, externalUserID string, roles ...Role) (*Profile, error) {
	if externalUserID == "" {
		return nil, ErrUnauthenticated
	}

	p, err := s.repo.GetByExternalUserID(ctx, externalUserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to resolve caller profile: %w", err)
	}

	if !p.HasRole(roles...) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *service) RequireProfile(ctx context.Context, externalUserID string) (*Profile, error) {
	if externalUserID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.GetByExternalUserID(ctx, externalUserID)
}

func (s *service) ListAll(ctx context.Context, actorID string) ([]*Profile, error) {
	if _, err := s.RequireRole(ctx, actorID, RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, Filter{})
}

func (s *service) AssignRole(ctx context.Context, actorID, targetUserID string, role Role) (*Profile, error) {
	if _, err := s.RequireRole(ctx, actorID, RoleAdmin); err != nil {
		return nil, err
	}
	if targetUserID == "" {
		return nil, ErrTargetUserIDRequired
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, err
	}

	var target *Profile
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		target, err = s.findTarget(ctx, targetUserID)
		if err != nil {
			return err
		}
		target.Role = role
		return s.repo.Update(ctx, target)
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (s *service) ToggleActive(ctx context.Context, actorID, targetUserID string) (bool, error) {
	if _, err := s.RequireRole(ctx, actorID, RoleAdmin, RoleOrganizer); err != nil {
		return false, err
	}
	if targetUserID == "" {
		return false, ErrTargetUserIDRequired
	}

	var active bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		target, err := s.findTarget(ctx, targetUserID)
		if err != nil {
			return err
		}
		if target.Role == RoleAdmin {
			return ErrCannotDeactivate
		}

		target.IsActive = !target.IsActive
		active = target.IsActive
		return s.repo.Update(ctx, target)
	})
	if err != nil {
		return false, err
	}
	return active, nil
}

func (s *service) findTarget(ctx context.Context, targetUserID string) (*Profile, error) {
	p, err := s.repo.GetByExternalUserID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) BackfillSkillLevel(ctx context.Context, actorID string) (int, error) {
	if _, err := s.RequireRole(ctx, actorID, RoleAdmin); err != nil {
		return 0, err
	}

	n, err := s.repo.BackfillSkillLevel(ctx, DefaultSkillLevel)
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "skill level backfilled", slog.Int("updated", n))
	return n, nil
}

func (s *service) ListActivePlayers(ctx context.Context, actorID string) ([]*Profile, error) {
	if _, err := s.RequireRole(ctx, actorID, RoleAdmin, RoleOrganizer); err != nil {
		return nil, err
	}
	active := true
	return s.repo.List(ctx, Filter{IsActive: &active})
}

func (s *service) ListMatchmakers(ctx context.Context, actorID string) ([]*Profile, error) {
	if _, err := s.RequireRole(ctx, actorID, RoleAdmin, RoleOrganizer); err != nil {
		return nil, err
	}
	role, active := RoleMatchmaker, true
	return s.repo.List(ctx, Filter{Role: &role, IsActive: &active})
}

func (s *service) GetByID(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByIDs(ctx context.Context, ids []string) (map[string]*Profile, error) {
	return s.repo.GetByIDs(ctx, ids)
}
