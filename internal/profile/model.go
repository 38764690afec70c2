package profile

import (
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/apperror"
)

var (
	ErrUnauthenticated      = apperror.Unauthenticated("not authenticated")
	ErrForbidden            = apperror.Forbidden("insufficient permissions")
	ErrRoleElevation        = apperror.Forbidden("only admins can assign organizer and matchmaker roles")
	ErrCannotDeactivate     = apperror.Forbidden("cannot deactivate admin users")
	ErrNotFound             = apperror.NotFound("profile not found")
	ErrTargetNotFound       = apperror.NotFound("target user profile not found")
	ErrProfileExists        = apperror.Conflict("profile already exists")
	ErrInvalidRole          = apperror.Validation("invalid role")
	ErrInvalidSkillLevel    = apperror.Validation("invalid skill level")
	ErrNameRequired         = apperror.Validation("first name and last name are required")
	ErrTargetUserIDRequired = apperror.Validation("target user id is required")
)

// Role is the closed set of application roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleOrganizer  Role = "organizer"
	RoleMatchmaker Role = "matchmaker"
	RolePlayer     Role = "player"
)

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleOrganizer, RoleMatchmaker, RolePlayer:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

// SkillLevel is a player's self-reported level.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// DefaultSkillLevel is assigned to profiles created before skill levels existed.
const DefaultSkillLevel = SkillIntermediate

func ParseSkillLevel(s string) (SkillLevel, error) {
	switch l := SkillLevel(s); l {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
		return l, nil
	default:
		return "", ErrInvalidSkillLevel
	}
}

// Profile is the application-level user record, keyed by the external identity.
type Profile struct {
	ID             string // UUID
	ExternalUserID string
	Role           Role
	FirstName      string
	LastName       string
	Phone          *string
	SkillLevel     *SkillLevel
	IsActive       bool
	CreatedAt      time.Time
}

// FullName joins first and last name.
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// HasRole reports whether the profile's role is one of roles.
func (p *Profile) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Filter defines filter options for listing profiles.
type Filter struct {
	Role     *Role
	IsActive *bool
}
