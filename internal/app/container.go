package app

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/tennis-league-backend/internal/account"
	accountHttp "github.com/nekogravitycat/tennis-league-backend/internal/account/http"
	"github.com/nekogravitycat/tennis-league-backend/internal/api"
	"github.com/nekogravitycat/tennis-league-backend/internal/auth"
	"github.com/nekogravitycat/tennis-league-backend/internal/db"
	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	eventHttp "github.com/nekogravitycat/tennis-league-backend/internal/event/http"
	"github.com/nekogravitycat/tennis-league-backend/internal/live"
	liveHttp "github.com/nekogravitycat/tennis-league-backend/internal/live/http"
	"github.com/nekogravitycat/tennis-league-backend/internal/match"
	matchHttp "github.com/nekogravitycat/tennis-league-backend/internal/match/http"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
	profileHttp "github.com/nekogravitycat/tennis-league-backend/internal/profile/http"
	"github.com/nekogravitycat/tennis-league-backend/internal/report"
	reportHttp "github.com/nekogravitycat/tennis-league-backend/internal/report/http"
	"github.com/nekogravitycat/tennis-league-backend/internal/store/memory"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Logger       *slog.Logger
}

// Repositories is the storage backend the services run on.
type Repositories struct {
	Accounts    account.Repository
	Profiles    profile.Repository
	Events      event.Repository
	Invitations event.InvitationRepository
	Matches     match.Repository
	Tx          db.Transactor
}

// PostgresRepositories builds the pgx-backed repositories.
func PostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Accounts:    account.NewPgxRepository(pool),
		Profiles:    profile.NewPgxRepository(pool),
		Events:      event.NewPgxRepository(pool),
		Invitations: event.NewPgxInvitationRepository(pool),
		Matches:     match.NewPgxRepository(pool),
		Tx:          db.NewPgxTransactor(pool),
	}
}

// MemoryRepositories builds repositories over an in-process store.
func MemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Accounts:    store.Accounts(),
		Profiles:    store.Profiles(),
		Events:      store.Events(),
		Invitations: store.Invitations(),
		Matches:     store.Matches(),
		Tx:          store,
	}
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Broker     *live.Broker
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config, repos Repositories) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	broker := live.NewBroker()

	// Account Module
	accountService := account.NewService(repos.Accounts, passwordHasher, logger)

	// Profile Module
	profileService := profile.NewService(repos.Profiles, repos.Tx, logger)

	// Event Module
	eventService := event.NewService(repos.Events, repos.Invitations, profileService, repos.Tx, broker, logger)
	invitationService := event.NewInvitationService(repos.Events, repos.Invitations, profileService, repos.Tx, broker, logger)

	// Match Module
	matchService := match.NewService(repos.Matches, repos.Events, repos.Invitations, profileService, repos.Tx, broker, logger)

	// Report Module
	reportService := report.NewService(profileService, repos.Profiles, repos.Events, repos.Invitations, repos.Matches)

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         logger,
		JWTManager:     jwtManager,
		AccountHandler: accountHttp.NewHandler(accountService, jwtManager),
		ProfileHandler: profileHttp.NewHandler(profileService, accountService),
		EventHandler:   eventHttp.NewHandler(eventService, invitationService),
		MatchHandler:   matchHttp.NewHandler(matchService),
		ReportHandler:  reportHttp.NewHandler(reportService),
		LiveHandler: liveHttp.NewHandler(broker, profileService, repos.Events,
			api.AllowedOrigins(cfg.IsProduction, cfg.ProdOrigins)),
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Broker:     broker,
	}
}
