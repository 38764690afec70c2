package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the public auth routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}
