package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"care_program_backend/internal/config"
	"care_program_backend/internal/controller"
	"care_program_backend/internal/program"
	"care_program_backend/internal/repository"
	"care_program_backend/internal/service"
	"care_program_backend/pkg/configwatcher"
	"care_program_backend/pkg/database"
	"care_program_backend/pkg/logger"
	"care_program_backend/pkg/monitoring"
	"care_program_backend/pkg/security"
	"care_program_backend/pkg/tracing"

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
	user       *repository.UserRepository
	program    *repository.ProgramRepository
	assessment *repository.AssessmentRepository
	content    *repository.ContentRepository
	waitTime   *repository.WaitTimeRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	content    *service.ContentService
	assessment *service.AssessmentService
	waitTime   *service.WaitTimeService
	program    *service.ProgramService
}

type controllers struct {
	auth       *controller.AuthController
	program    *controller.ProgramController
	admin      *controller.AdminController
	assessment *controller.AssessmentController
	content    *controller.ContentController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		program:    repository.NewProgramRepository(db),
		assessment: repository.NewAssessmentRepository(db),
		content:    repository.NewContentRepository(db),
		waitTime:   repository.NewWaitTimeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.content = service.NewContentService(repos.content, rdb)
	s.assessment = service.NewAssessmentService(repos.assessment)
	s.waitTime = service.NewWaitTimeService(repos.waitTime, repos.program)
	s.program = service.NewProgramService(
		repos.program,
		s.content,
		repos.assessment,
		repos.waitTime,
		s.user,
		program.SystemClock(),
		cfg.Program.Days,
		cfg.Program.ConflictRetryAttempts,
	)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		program:    controller.NewProgramController(s.program, s.assessment),
		admin:      controller.NewAdminController(s.program, s.user, s.waitTime),
		assessment: controller.NewAssessmentController(s.assessment),
		content:    controller.NewContentController(s.content),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		if window <= 0 {
			window = time.Minute
		}
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))
	}

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// the catalog cache is an optimization, not a dependency
		logger.Log.Warn("Redis unavailable, catalog caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("care-program", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, services, cfg)

	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		services.program.SetConflictRetryAttempts(newCfg.Program.ConflictRetryAttempts)
		logger.Log.Info("Configuration reloaded")
	})

	return app
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

	logger.Log.Sync()
	log.Println("Server exiting")
}
