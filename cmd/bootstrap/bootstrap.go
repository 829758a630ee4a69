package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-scheduling/config"
	deliveryHttp "hospital-scheduling/internal/delivery/http"
	"hospital-scheduling/internal/delivery/http/handler"
	"hospital-scheduling/internal/delivery/http/middleware"
	"hospital-scheduling/internal/infrastructure/cache"
	"hospital-scheduling/internal/infrastructure/database"
	"hospital-scheduling/internal/repository"
	"hospital-scheduling/internal/service"
	"hospital-scheduling/internal/usecase"
	"hospital-scheduling/pkg/jwt"
	"hospital-scheduling/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config        *config.Config
	DB            *gorm.DB
	RedisClient   *redis.Client
	Server        *http.Server
	ExpirySweeper *service.ExpirySweeper
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Apply migrations before serving any traffic
	if err := database.RunMigrations(db, cfg.DB); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server, sweeper := initializeServer(cfg, db, redisClient)
	app.Server = server
	app.ExpirySweeper = sweeper

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server and the
// background expiry sweeper
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *service.ExpirySweeper) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository()
	weeklyRepo := repository.NewWeeklyScheduleRepository()
	overrideRepo := repository.NewScheduleOverrideRepository()
	waitlistRepo := repository.NewWaitlistRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize services
	auditService := service.NewAuditService(db, log, auditLogRepo)
	dispatcher := service.NewRedisNotificationDispatcher(redisClient, log, cfg.Scheduling.NotificationQueue)

	// Initialize usecases. The waitlist engine doubles as the slot-freed
	// handler for cancellations, so it is wired before the booking gate.
	slotUsecase := usecase.NewSlotResolverUsecase(db, log, weeklyRepo, overrideRepo, appointmentRepo, cfg.Scheduling.SlotDurationMinutes)
	waitlistUsecase := usecase.NewWaitlistUsecase(db, log, waitlistRepo, dispatcher, auditService, cfg.Scheduling.ResponseWindow)
	bookingUsecase := usecase.NewBookingUsecase(db, log, appointmentRepo, waitlistUsecase, auditService)
	scheduleUsecase := usecase.NewScheduleAdminUsecase(db, log, weeklyRepo, overrideRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Start the periodic expiry sweep
	sweeper := service.NewExpirySweeper(log, waitlistUsecase, cfg.Scheduling.SweepInterval)

	// Initialize handlers
	slotHandler := handler.NewSlotHandler(slotUsecase)
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, customValidator)
	waitlistHandler := handler.NewWaitlistHandler(waitlistUsecase, customValidator)
	scheduleHandler := handler.NewScheduleHandler(scheduleUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(slotHandler, appointmentHandler, waitlistHandler, scheduleHandler, auditLogHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}

	return server, sweeper
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Stop the expiry sweeper before dropping connections
	if app.ExpirySweeper != nil {
		app.ExpirySweeper.Stop()
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
