package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/schoolportal/internal/app/controllers"
	appMigrations "github.com/yigit/schoolportal/internal/app/migrations"
	appRepos "github.com/yigit/schoolportal/internal/app/repositories"
	appRoutes "github.com/yigit/schoolportal/internal/app/routes"
	appServices "github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/app/web"
	"github.com/yigit/schoolportal/internal/client"
	"github.com/yigit/schoolportal/internal/config"
	"github.com/yigit/schoolportal/internal/db"
	appMiddleware "github.com/yigit/schoolportal/internal/middleware"
	pkgAuth "github.com/yigit/schoolportal/internal/pkg/auth"
	"github.com/yigit/schoolportal/internal/pkg/logger"
)

// TokenIssuer names the portal in the session tokens it signs.
const TokenIssuer = "school-portal"

// DefaultConfigPath is read when no other path is given.
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config         *config.Config
	Database       *db.PostgresDB
	Store          appRepos.SessionStore
	Backend        *client.Client
	JWTService     *pkgAuth.JWTService
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to postgres and applies the migrations when the
// session store needs it. It returns nil for the memory store.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if cfg.Session.Store != config.SessionStorePostgres {
		lgr.Info().Str("store", cfg.Session.Store).Msg("Sessions kept in memory, skipping database")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := Migrate(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// Migrate applies pending migrations from the configured directory, or the
// embedded ones when it does not exist.
func Migrate(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool, lgr).Apply(ctx, appMigrations.Source(cfg.Database.MigrationsDir))
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes the session store, backend client, services
// and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Database: database, Logger: lgr}

	store, err := appRepos.NewSessionStore(cfg.Session.Store, database)
	if err != nil {
		return nil, err
	}
	deps.Store = store

	deps.Backend = client.New(cfg.BackendBaseURL(), nil, cfg.BackendTimeout(), lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		TokenIssuer: TokenIssuer,
	})

	deps.Services = appServices.NewServices(deps.Store, deps.Backend, deps.JWTService, cfg.SessionTTL(), lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.Services.Auth, cfg.Session.CookieName)

	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(deps.Services.Auth, appControllers.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
		}, lgr),
		Students: appControllers.NewStudentController(deps.Services.Students, deps.Services.Records),
		Teachers: appControllers.NewTeacherController(deps.Services.Teachers),
		Records:  appControllers.NewRecordController(deps.Services.Records, deps.Services.Notifications, lgr),
		Reports:  appControllers.NewReportController(deps.Services.Notifications),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	renderer, err := web.Load()
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component("http")))
	router.HTMLRender = renderer
	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, web.PageError, gin.H{"Title": "Page not found"})
	})

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	return router, nil
}
