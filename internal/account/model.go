package account

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/tennis-league-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("account not found")
	ErrEmailAlreadyUsed   = apperror.Conflict("email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.Validation("email is required")
	ErrPasswordTooShort   = apperror.Validation("password is too short")
)

// Account is a login identity. Its ID is the opaque user id that profiles refer to.
type Account struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
