package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/elevate/clubhub/internal/app/controllers"
	appJobs "github.com/elevate/clubhub/internal/app/jobs"
	appMigrations "github.com/elevate/clubhub/internal/app/migrations"
	appRepos "github.com/elevate/clubhub/internal/app/repositories"
	appRoutes "github.com/elevate/clubhub/internal/app/routes"
	appServices "github.com/elevate/clubhub/internal/app/services"
	"github.com/elevate/clubhub/internal/config"
	"github.com/elevate/clubhub/internal/db"
	appMiddleware "github.com/elevate/clubhub/internal/middleware"
	pkgAuth "github.com/elevate/clubhub/internal/pkg/auth"
	"github.com/elevate/clubhub/internal/pkg/cache"
	"github.com/elevate/clubhub/internal/pkg/events"
	"github.com/elevate/clubhub/internal/pkg/filestorage"
	"github.com/elevate/clubhub/internal/pkg/helpers"
	"github.com/elevate/clubhub/internal/pkg/logger"
	"github.com/elevate/clubhub/internal/pkg/metrics"
	"github.com/elevate/clubhub/internal/pkg/scheduler"
	"github.com/elevate/clubhub/internal/pkg/validation"
	"github.com/elevate/clubhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	Cache       cache.Cache
	Publisher   events.Publisher
	Scheduler   *scheduler.Scheduler
	JWTService  *pkgAuth.JWTService
	AuthService *appServices.AuthService

	UserService         appServices.UserService
	ClubService         appServices.ClubService
	ClubRequestService  appServices.ClubRequestService
	UserClubService     appServices.UserClubService
	AnnouncementService appServices.AnnouncementService
	QuestionService     appServices.QuestionService
	AnswerService       appServices.AnswerService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// Close releases the infrastructure clients. Safe on a partially built set.
func (d *Dependencies) Close() {
	if d.Scheduler != nil {
		d.Scheduler.Stop()
	}
	if d.Cache != nil {
		if err := d.Cache.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Failed to close cache")
		}
	}
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the
// default super admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(dbPool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.AdminAccount{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(dbPool), admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// setupCache connects to redis when enabled, otherwise reads always miss
func setupCache(cfg *config.Config, lgr zerolog.Logger) (cache.Cache, error) {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled, club reads are not cached")
		return cache.NoopCache{}, nil
	}
	return cache.NewRedisCache(cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      helpers.ParseDuration(cfg.Redis.TTL, 5*time.Minute),
	})
}

// setupPublisher creates the kafka producer when enabled, otherwise events are dropped
func setupPublisher(cfg *config.Config, lgr zerolog.Logger) (events.Publisher, error) {
	if !cfg.Kafka.Enabled {
		lgr.Info().Msg("Kafka disabled, domain events are not published")
		return events.NoopPublisher{}, nil
	}
	return events.NewKafkaPublisher(events.Config{
		Brokers: cfg.KafkaBrokers(),
		Topic:   cfg.Kafka.Topic,
	})
}

// BuildDependencies initializes infrastructure clients, repositories, services and
// controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if err := validation.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	var err error
	if deps.Cache, err = setupCache(cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize cache")
		return nil, err
	}
	if deps.Publisher, err = setupPublisher(cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize event publisher")
		deps.Close()
		return nil, err
	}

	deps.Repos = appRepos.NewRepositories(dbPool)
	stores := appServices.NewStores(deps.Repos)
	tx := appServices.NewTransactor(deps.Repos)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 10*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(stores.Users, deps.JWTService, logger.Component("auth"))
	deps.UserService = appServices.NewUserService(stores, tx, deps.Cache, logger.Component("users"))
	deps.ClubService = appServices.NewClubService(stores, tx, deps.Cache, deps.Publisher,
		appServices.ClubServiceConfig{
			MemberLimit:       cfg.Club.MemberLimit,
			DefaultTotalSlots: cfg.Club.DefaultTotalSlots,
		}, logger.Component("clubs"))
	deps.ClubRequestService = appServices.NewClubRequestService(stores, tx, deps.Cache, deps.Publisher,
		cfg.Club.MemberLimit, logger.Component("club_requests"))
	deps.UserClubService = appServices.NewUserClubService(stores, logger.Component("user_clubs"))
	deps.AnnouncementService = appServices.NewAnnouncementService(stores, tx, deps.Publisher, logger.Component("announcements"))
	deps.QuestionService = appServices.NewQuestionService(stores, logger.Component("questions"))
	deps.AnswerService = appServices.NewAnswerService(stores, logger.Component("answers"))

	images := filestorage.NewUploadReader(cfg.Server.MaxUploadMB)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, images, logger.Component("auth")),
		User:         appControllers.NewUserController(deps.UserService, images),
		Club:         appControllers.NewClubController(deps.ClubService, images),
		ClubRequest:  appControllers.NewClubRequestController(deps.ClubRequestService),
		UserClub:     appControllers.NewUserClubController(deps.UserClubService),
		Announcement: appControllers.NewAnnouncementController(deps.AnnouncementService, images),
		Question:     appControllers.NewQuestionController(deps.QuestionService, deps.AnswerService),
	}

	if cfg.Scheduler.Enabled {
		deps.Scheduler = scheduler.New()
		reconciler := appJobs.NewCounterReconciler(
			deps.Repos.ClubRepository,
			deps.Repos.UserRepository,
			deps.Cache,
			logger.Component("jobs"),
		)
		if err := deps.Scheduler.Register(reconciler.Job(cfg.Scheduler.ReconcileSpec)); err != nil {
			deps.Close()
			return nil, err
		}
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB+1) << 20
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component("http")))

	if cfg.Metrics.Enabled {
		router.Use(metrics.GinMiddleware())
		appRoutes.SetupMetrics(router, cfg.Metrics.Path, metrics.Handler())
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
