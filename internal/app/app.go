package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	franchise   *repository.FranchiseRepository
	course      *repository.CourseRepository
	enrollment  *repository.EnrollmentRepository
	quiz        *repository.QuizRepository
	assignment  *repository.AssignmentRepository
	certificate *repository.CertificateRepository
	order       *repository.OrderRepository
	ticket      *repository.TicketRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	franchise   *service.FranchiseService
	course      *service.CourseService
	enrollment  *service.EnrollmentService
	quiz        *service.QuizService
	assignment  *service.AssignmentService
	certificate *service.CertificateService
	storage     *service.StorageService
	ticket      *service.TicketService
	dashboard   *service.DashboardService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	franchise   *controller.FranchiseController
	course      *controller.CourseController
	enrollment  *controller.EnrollmentController
	order       *controller.OrderController
	quiz        *controller.QuizController
	assignment  *controller.AssignmentController
	certificate *controller.CertificateController
	ticket      *controller.TicketController
	dashboard   *controller.DashboardController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		franchise:   repository.NewFranchiseRepository(db),
		course:      repository.NewCourseRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		quiz:        repository.NewQuizRepository(db),
		assignment:  repository.NewAssignmentRepository(db),
		certificate: repository.NewCertificateRepository(db),
		order:       repository.NewOrderRepository(db),
		ticket:      repository.NewTicketRepository(db),
	}
}

func (a *App) initServices(r *repositories, cfg *config.Config, rdb *redis.Client) *services {
	storage := service.NewStorageService(cfg)
	certificate := service.NewCertificateService(
		r.certificate, r.enrollment, r.course, r.user, storage, rdb, &cfg.Certificate)
	enrollment := service.NewEnrollmentService(r.enrollment, r.course, r.order, certificate)

	return &services{
		auth:        service.NewAuthService(r.user, cfg),
		user:        service.NewUserService(r.user),
		franchise:   service.NewFranchiseService(r.franchise, rdb),
		course:      service.NewCourseService(r.course, rdb),
		enrollment:  enrollment,
		quiz:        service.NewQuizService(r.quiz, enrollment),
		assignment:  service.NewAssignmentService(r.assignment, enrollment),
		certificate: certificate,
		storage:     storage,
		ticket:      service.NewTicketService(r.ticket),
		dashboard:   service.NewDashboardService(r.enrollment, r.certificate, r.course, r.ticket, r.franchise),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user),
		franchise:   controller.NewFranchiseController(s.franchise),
		course:      controller.NewCourseController(s.course),
		enrollment:  controller.NewEnrollmentController(s.enrollment),
		order:       controller.NewOrderController(s.enrollment),
		quiz:        controller.NewQuizController(s.quiz),
		assignment:  controller.NewAssignmentController(s.assignment),
		certificate: controller.NewCertificateController(s.certificate),
		ticket:      controller.NewTicketController(s.ticket),
		dashboard:   controller.NewDashboardController(s.dashboard),
		health:      controller.NewHealthController(db, rdb),
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

// startBackgroundTasks runs the certificate sweep that backfills certificates
// for enrollments completed while issuance was unavailable.
func (a *App) startBackgroundTasks(s *services) {
	interval := time.Duration(a.Config.Certificate.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		for range ticker.C {
			issued, err := s.certificate.IssueMissing()
			if err != nil {
				logger.Log.Error("certificate sweep failed", zap.Error(err))
				continue
			}
			if issued > 0 {
				logger.Log.Info("certificate sweep issued certificates", zap.Int("count", issued))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis only backs caches; the API works without it.
		logger.Log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("lms-platform", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
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

	logger.Log.Sync()
	log.Println("Server exiting")
}
