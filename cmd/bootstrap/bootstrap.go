package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediconnect/config"
	deliveryHttp "mediconnect/internal/delivery/http"
	"mediconnect/internal/delivery/http/handler"
	"mediconnect/internal/delivery/http/middleware"
	"mediconnect/internal/domain/gateway"
	"mediconnect/internal/infrastructure/ai"
	"mediconnect/internal/infrastructure/cache"
	"mediconnect/internal/infrastructure/database"
	"mediconnect/internal/infrastructure/messaging"
	"mediconnect/internal/infrastructure/payment"
	"mediconnect/internal/repository"
	"mediconnect/internal/service"
	"mediconnect/internal/usecase"
	"mediconnect/pkg/jwt"
	"mediconnect/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server

	// closers are external clients (Kafka writer, Gemini client) released on shutdown
	closers []io.Closer
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context) (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	SetupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	server, err := app.initializeServer(ctx, cfg, db, redisClient)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// SetupLogger configures the logrus logger
func SetupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(ctx context.Context, cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	log := logrus.StandardLogger()

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	clock := usecase.NewClock(cfg.Location(), nil)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	doctorProfileRepo := repository.NewDoctorProfileRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	medicalRecordRepo := repository.NewMedicalRecordRepository(db)
	planRepo := repository.NewPlanRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	sessionStore := service.NewRedisSessionStore(redisClient)
	slotLocker := service.NewRedisSlotLocker(redisClient)

	events := app.eventPublisher(cfg, log)
	payments := paymentGateway(cfg)
	generator, err := app.textGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, sessionStore, jwtService, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(log, doctorProfileRepo, auditService)
	availabilityUsecase := usecase.NewAvailabilityUsecase(log, doctorProfileRepo, appointmentRepo, clock)
	appointmentUsecase := usecase.NewAppointmentUsecase(log, appointmentRepo, doctorProfileRepo, slotLocker, events, auditService, clock, cfg.Booking.SlotLockTTL)
	medicalRecordUsecase := usecase.NewMedicalRecordUsecase(log, medicalRecordRepo, appointmentRepo, userRepo, doctorProfileRepo, auditService, clock)
	paymentUsecase := usecase.NewPaymentUsecase(log, planRepo, userRepo, payments, auditService, usecase.PaymentOptions{
		BaseURL:  cfg.App.BaseURL,
		Currency: cfg.Stripe.Currency,
	})
	analysisUsecase := usecase.NewAnalysisUsecase(log, generator, customValidator, cfg.Upload.MaxBytes)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, availabilityUsecase)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	medicalRecordHandler := handler.NewMedicalRecordHandler(medicalRecordUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase, customValidator)
	analysisHandler := handler.NewAnalysisHandler(analysisUsecase, customValidator, cfg.Upload.MaxBytes)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessionStore, log)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		appointmentHandler,
		medicalRecordHandler,
		paymentHandler,
		analysisHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
	)

	// Create server
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  2 * cfg.App.WriteTimeout,
	}, nil
}

func (app *App) eventPublisher(cfg *config.Config, log *logrus.Logger) gateway.EventPublisher {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("KAFKA_BROKERS not set, appointment events are only logged")
		return service.NewLogEventPublisher(log)
	}

	publisher, err := messaging.NewKafkaPublisher(cfg.Kafka, log)
	if err != nil {
		log.Warnf("Failed to create Kafka publisher, events are only logged: %v", err)
		return service.NewLogEventPublisher(log)
	}
	app.closers = append(app.closers, publisher)
	return publisher
}

func paymentGateway(cfg *config.Config) gateway.PaymentGateway {
	if cfg.Stripe.SecretKey == "" {
		logrus.Warn("STRIPE_SECRET_KEY not set, payment endpoints will answer 503")
		return payment.UnavailableGateway{}
	}
	return payment.NewStripeGateway(cfg.Stripe.SecretKey)
}

func (app *App) textGenerator(ctx context.Context, cfg *config.Config) (gateway.TextGenerator, error) {
	if cfg.Gemini.APIKey == "" {
		logrus.Warn("GEMINI_API_KEY not set, analysis endpoints will answer 503")
		return ai.UnavailableGenerator{}, nil
	}

	generator, err := ai.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	app.closers = append(app.closers, generator)
	return generator, nil
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

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			logrus.Warnf("Failed to close client: %v", err)
		}
	}

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
