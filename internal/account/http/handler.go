package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/tennis-league-backend/internal/account"
	"github.com/nekogravitycat/tennis-league-backend/internal/auth"
	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/response"
)

type Handler struct {
	service    account.Service
	jwtManager *auth.JWTManager
}

func NewHandler(service account.Service, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		service:    service,
		jwtManager: jwtManager,
	}
}

// Register creates a login identity. A profile is created separately via POST /v1/profiles.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	a, err := h.service.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewAccountResponse(a))
}

// Login authenticates with email and password and returns a JWT access token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	a, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// For security reasons, do not reveal which condition failed
		if errors.Is(err, account.ErrInvalidCredentials) || errors.Is(err, account.ErrNotFound) {
			response.Error(c, account.ErrInvalidCredentials)
			return
		}
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(a.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		Account:     NewAccountResponse(a),
	})
}
