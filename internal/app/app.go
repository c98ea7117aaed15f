package app

import (
	"context"
	"eduplay_backend/internal/config"
	"eduplay_backend/internal/controller"
	"eduplay_backend/internal/repository"
	"eduplay_backend/internal/service"
	"eduplay_backend/pkg/database"
	"eduplay_backend/pkg/logger"
	"eduplay_backend/pkg/monitoring"
	"eduplay_backend/pkg/security"
	"eduplay_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user        *repository.UserRepository
	class       *repository.ClassRepository
	progress    *repository.ProgressRepository
	points      *repository.PointsRepository
	achievement *repository.AchievementRepository
	game        *repository.GameRepository
	analytics   *repository.AnalyticsRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	points      *service.PointsService
	achievement *service.AchievementService
	progress    *service.ProgressService
	game        *service.GameService
	dashboard   *service.DashboardService
	analytics   *service.AnalyticsService
}

type controllers struct {
	auth    *controller.AuthController
	student *controller.StudentController
	game    *controller.GameController
	teacher *controller.TeacherController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		class:       repository.NewClassRepository(db),
		progress:    repository.NewProgressRepository(db),
		points:      repository.NewPointsRepository(db),
		achievement: repository.NewAchievementRepository(db),
		game:        repository.NewGameRepository(db),
		analytics:   repository.NewAnalyticsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, cfg)
	s.points = service.NewPointsService(repos.points, rdb)
	s.achievement = service.NewAchievementService(repos.achievement, repos.points, repos.progress, repos.game)
	s.progress = service.NewProgressService(repos.progress, s.points, s.achievement)
	s.game = service.NewGameService(repos.game, s.points, s.achievement, s.storage)
	s.dashboard = service.NewDashboardService(s.points, s.achievement, repos.progress, repos.game)
	s.analytics = service.NewAnalyticsService(repos.analytics, repos.class, repos.user, repos.progress, repos.points, repos.game)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		student: controller.NewStudentController(s.progress, s.points, s.achievement, s.dashboard),
		game:    controller.NewGameController(s.game),
		teacher: controller.NewTeacherController(s.analytics),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Error("Failed to initialize database", zap.Error(err))
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Error("Failed to initialize redis", zap.Error(err))
			return nil, err
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		return nil, err
	}
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("eduplay-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
			return nil, err
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" && cfg.Storage.LocalPath != "" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
