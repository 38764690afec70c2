package api

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	accountHttp "github.com/nekogravitycat/tennis-league-backend/internal/account/http"
	"github.com/nekogravitycat/tennis-league-backend/internal/auth"
	eventHttp "github.com/nekogravitycat/tennis-league-backend/internal/event/http"
	liveHttp "github.com/nekogravitycat/tennis-league-backend/internal/live/http"
	matchHttp "github.com/nekogravitycat/tennis-league-backend/internal/match/http"
	profileHttp "github.com/nekogravitycat/tennis-league-backend/internal/profile/http"
	reportHttp "github.com/nekogravitycat/tennis-league-backend/internal/report/http"
)

// Config holds the handlers and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *slog.Logger
	JWTManager   *auth.JWTManager

	AccountHandler *accountHttp.Handler
	ProfileHandler *profileHttp.Handler
	EventHandler   *eventHttp.Handler
	MatchHandler   *matchHttp.Handler
	ReportHandler  *reportHttp.Handler
	LiveHandler    *liveHttp.Handler
}

// DevOrigins are the browser origins allowed outside production.
var DevOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost:8081",
}

// AllowedOrigins returns the CORS origins for the environment.
func AllowedOrigins(isProduction bool, prodOrigins string) []string {
	if !isProduction {
		return DevOrigins
	}

	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: one structured log line per request.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	config.AllowOrigins = AllowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(config.AllowOrigins) > 0 {
		r.Use(cors.New(config))
	}

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	v1 := r.Group("/v1")
	{
		accountHttp.RegisterRoutes(v1, cfg.AccountHandler)

		protected := v1.Group("", authMiddleware)
		profileHttp.RegisterRoutes(protected, cfg.ProfileHandler)
		eventHttp.RegisterRoutes(protected, cfg.EventHandler)
		matchHttp.RegisterRoutes(protected, cfg.MatchHandler)
		reportHttp.RegisterRoutes(protected, cfg.ReportHandler)
		liveHttp.RegisterRoutes(protected, cfg.LiveHandler)
	}

	return r
}
