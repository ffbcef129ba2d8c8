package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/controllers"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/migrations"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/repositories"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/routes"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/app/services"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/config"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/db"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/middleware"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/auth"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/email"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/filestorage"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/logger"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/metrics"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/ratelimit"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/validation"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/websocket"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/seed"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultConfigPath is read relative to the working directory
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *repositories.Repositories
	Storage     filestorage.FileStorage
	LocalStore  *filestorage.LocalStorage
	JWTService  *auth.JWTService
	Email       email.EmailService
	Metrics     *metrics.Metrics
	Hub         *websocket.Hub
	WSHandler   *websocket.Handler
	LoginLimit  *ratelimit.KeyedLimiter
	Middleware  *middleware.AuthMiddleware
	Controllers *routes.Controllers

	NotificationService services.NotificationService
	TrainingService     services.TrainingService

	Logger zerolog.Logger
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
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
		File: logger.FileConfig{
			Path:       cfg.Logging.FilePath,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		},
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase opens the connection pool.
func ConnectDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	pool, err := db.Connect(context.Background(), cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Int32("maxConns", pool.Config().MaxConns).Msg("Database connection established")
	return pool, nil
}

// RunMigrations applies pending migrations from the configured directory.
func RunMigrations(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) error {
	dir := cfg.Server.MigrationsPath
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("migrations directory not found at %s: %w", dir, err)
	}

	applied, err := migrations.NewMigrator(pool, lgr).MigrateFromDirectory(ctx, dir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations complete")
	return nil
}

// SetupDatabase connects, migrates and seeds the database.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	pool, err := ConnectDatabase(cfg, lgr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := RunMigrations(ctx, cfg, pool, lgr); err != nil {
		pool.Close()
		return nil, err
	}

	if err := seed.CreateDefaultData(ctx, pool, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return pool, nil
}

// NewFileStorage returns R2 storage when configured and local disk storage otherwise.
// The local store is also returned so its directory can be served.
func NewFileStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (filestorage.FileStorage, *filestorage.LocalStorage, error) {
	if cfg.Storage.Driver == config.StorageDriverR2 {
		r2, err := filestorage.NewR2Storage(ctx, filestorage.R2Config{
			Endpoint:        cfg.R2Endpoint(),
			AccessKeyID:     cfg.Storage.R2AccessKeyID,
			SecretAccessKey: cfg.Storage.R2SecretKey,
			Bucket:          cfg.Storage.R2Bucket,
			PublicURL:       cfg.Storage.R2PublicURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize r2 storage: %w", err)
		}
		lgr.Info().Str("bucket", cfg.Storage.R2Bucket).Msg("Using R2 object storage")
		return r2, nil, nil
	}

	local, err := filestorage.NewLocalStorage(cfg.Storage.LocalPath, "/uploads")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	lgr.Info().Str("path", cfg.Storage.LocalPath).Msg("Using local file storage")
	return local, local, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	var err error
	deps.Storage, deps.LocalStore, err = NewFileStorage(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, err
	}

	deps.Repos = repositories.NewRepositories(pool)
	deps.Metrics = metrics.NewMetrics()

	deps.JWTService = auth.NewJWTService(auth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Email = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.Server.PublicURL,
	}, lgr)

	deps.Hub = websocket.NewHub(lgr)
	deps.Hub.OnClientCountChange(func(n int) {
		deps.Metrics.WebsocketClients.Set(float64(n))
	})
	deps.WSHandler = websocket.NewHandler(deps.Hub, cfg.CORS.AllowedOrigins, lgr)

	deps.LoginLimit = ratelimit.NewPerMinute(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst)

	r := deps.Repos
	publicURLs := []string{strings.TrimRight(cfg.Server.PublicURL, "/") + "/uploads", cfg.Storage.R2PublicURL}

	deps.NotificationService = services.NewNotificationService(r.NotificationRepository, r.UserRepository, deps.Hub, deps.Email, lgr)
	authService := services.NewAuthService(r.UserRepository, r.TokenRepository, r.PasswordResetTokenRepository, deps.JWTService, deps.Email, deps.Metrics, lgr)
	userService := services.NewUserService(r.UserRepository, r.DepartmentRepository, r.TokenRepository, deps.Email, lgr)
	departmentService := services.NewDepartmentService(r.DepartmentRepository, lgr)
	deps.TrainingService = services.NewTrainingService(r.TrainingRepository, deps.NotificationService, deps.Metrics, lgr)
	policyService := services.NewPolicyService(r.PolicyRepository, deps.NotificationService, deps.Storage, lgr)
	libraryService := services.NewLibraryService(r.LibraryRepository, deps.Storage, lgr)
	marketService := services.NewMarketService(r.MarketRepository, deps.NotificationService, deps.Storage, lgr)
	surveyService := services.NewSurveyService(r.SurveyRepository, lgr)
	newsService := services.NewNewsService(r.NewsRepository, deps.Storage, lgr)
	academyService := services.NewAcademyService(r.AcademyRepository, r.TrainingRepository, lgr)
	workSystemService := services.NewWorkSystemService(r.WorkSystemRepository, r.UserRepository, r.DepartmentRepository, deps.Storage, lgr)
	searchService := services.NewSearchService(r.SearchRepository)
	analyticsService := services.NewAnalyticsService(r.AnalyticsRepository, r.PolicyRepository, r.SurveyRepository)
	settingService := services.NewSettingService(r.SettingRepository, lgr)
	uploadService := services.NewUploadService(
		deps.Storage,
		cfg.MaxUploadBytes(),
		helpers.ParseDuration(cfg.Storage.PresignTTL, 15*time.Minute),
		publicURLs,
		deps.Metrics,
		lgr,
	)

	deps.Middleware = middleware.NewAuthMiddleware(deps.JWTService, r.UserRepository)

	deps.Controllers = &routes.Controllers{
		Auth:         controllers.NewAuthController(authService, lgr),
		User:         controllers.NewUserController(userService, lgr),
		Department:   controllers.NewDepartmentController(departmentService),
		Training:     controllers.NewTrainingController(deps.TrainingService, lgr),
		Policy:       controllers.NewPolicyController(policyService),
		Library:      controllers.NewLibraryController(libraryService),
		Market:       controllers.NewMarketController(marketService, lgr),
		Survey:       controllers.NewSurveyController(surveyService),
		News:         controllers.NewNewsController(newsService),
		Academy:      controllers.NewAcademyController(academyService, lgr),
		WorkSystem:   controllers.NewWorkSystemController(workSystemService),
		Notification: controllers.NewNotificationController(deps.NotificationService),
		Search:       controllers.NewSearchController(searchService),
		Analytics:    controllers.NewAnalyticsController(analyticsService),
		Config:       controllers.NewConfigController(settingService, lgr),
		Upload:       controllers.NewUploadController(uploadService),
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

	if err := validation.RegisterWithGin(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20
	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.CORS.AllowedOrigins, helpers.ParseDuration(cfg.CORS.MaxAge, 12*time.Hour)),
	)

	routes.SetupSwagger(router)
	routes.SetupRouter(router, deps.Controllers, deps.Middleware, deps.WSHandler, deps.LoginLimit, deps.Metrics)

	if deps.LocalStore != nil {
		router.Static("/uploads", deps.LocalStore.BasePath())
		lgr.Info().Str("path", deps.LocalStore.BasePath()).Msg("Static file serving configured for uploads directory")
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
