package http

import (
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/account"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

// ProfileResponse is the public shape of a profile.
type ProfileResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	FullName   string    `json:"full_name"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	SkillLevel *string   `json:"skill_level,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateProfileRequest is the payload for POST /profiles.
type CreateProfileRequest struct {
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Role       string  `json:"role" binding:"required,oneof=admin organizer matchmaker player"`
	Phone      *string `json:"phone"`
	SkillLevel string  `json:"skill_level" binding:"required,oneof=beginner intermediate advanced"`
}

// AssignRoleRequest is the payload for PUT /users/:user_id/role.
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin organizer matchmaker player"`
}

type ToggleActiveResponse struct {
	IsActive bool `json:"is_active"`
}

type BackfillResponse struct {
	Updated int `json:"updated"`
}

func NewProfileResponse(p *profile.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:        p.ID,
		UserID:    p.ExternalUserID,
		Role:      string(p.Role),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Phone:     p.Phone,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
	if p.SkillLevel != nil {
		level := string(*p.SkillLevel)
		resp.SkillLevel = &level
	}
	return resp
}

func NewProfileListResponse(profiles []*profile.Profile) []ProfileResponse {
	items := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		items[i] = NewProfileResponse(p)
	}
	return items
}

// NewAdminProfileListResponse adds the login email for profiles backed by a
// built-in account.
func NewAdminProfileListResponse(profiles []*profile.Profile, accounts map[string]*account.Account) []ProfileResponse {
	items := NewProfileListResponse(profiles)
	for i, p := range profiles {
		if a, ok := accounts[p.ExternalUserID]; ok {
			email := a.Email
			items[i].Email = &email
		}
	}
	return items
}
