package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/tennis-league-backend/internal/account"
	"github.com/nekogravitycat/tennis-league-backend/internal/auth"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/request"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/response"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

type Handler struct {
	service  profile.Service
	accounts account.Service
}

func NewHandler(service profile.Service, accounts account.Service) *Handler {
	return &Handler{service: service, accounts: accounts}
}

// Me returns the caller's profile.
func (h *Handler) Me(c *gin.Context) {
	p, err := h.service.GetCurrent(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProfileResponse(p))
}

// Create builds the caller's profile. Only players and the very first admin may self-register.
func (h *Handler) Create(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), profile.CreateInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       profile.Role(req.Role),
		Phone:      req.Phone,
		SkillLevel: profile.SkillLevel(req.SkillLevel),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewProfileResponse(p))
}

// List returns every profile with its login email when one exists.
// Access Control: admin only.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	profiles, err := h.service.ListAll(ctx, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ExternalUserID
	}
	accounts, err := h.accounts.GetByIDs(ctx, ids)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewAdminProfileListResponse(profiles, accounts)))
}

// BackfillSkillLevel sets the default skill level on profiles that have none.
// Access Control: admin only.
func (h *Handler) BackfillSkillLevel(c *gin.Context) {
	n, err := h.service.BackfillSkillLevel(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, BackfillResponse{Updated: n})
}

// AssignRole changes the role of the profile owned by :user_id.
// Access Control: admin only.
func (h *Handler) AssignRole(c *gin.Context) {
	var uri request.ByUserIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.AssignRole(c.Request.Context(), auth.GetUserID(c), uri.UserID, profile.Role(req.Role))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewProfileResponse(p))
}

// ToggleActive flips the active flag of the profile owned by :user_id.
// Access Control: admin or organizer.
func (h *Handler) ToggleActive(c *gin.Context) {
	var uri request.ByUserIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	active, err := h.service.ToggleActive(c.Request.Context(), auth.GetUserID(c), uri.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, ToggleActiveResponse{IsActive: active})
}

func (h *Handler) ListPlayers(c *gin.Context) {
	profiles, err := h.service.ListActivePlayers(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewProfileListResponse(profiles)))
}

func (h *Handler) ListMatchmakers(c *gin.Context) {
	profiles, err := h.service.ListMatchmakers(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewListResponse(NewProfileListResponse(profiles)))
}
