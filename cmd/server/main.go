package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	httpapi "unistay-backend/internal/api/http"
	"unistay-backend/internal/config"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/ratelimit"
	"unistay-backend/internal/receipt"
	"unistay-backend/internal/repository/postgres"
	"unistay-backend/internal/security"
	"unistay-backend/internal/service"
	"unistay-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting UniStay backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "secure_cookies", cfg.Server.SecureCookies)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Storage configuration", "type", cfg.Storage.Type, "max_file_size_mb", cfg.Storage.MaxFileSize)
	logger.Info("Email configuration", "provider", cfg.Email.Provider)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Sessions and login throttling share Redis when it is configured.
	var (
		limiter ratelimit.Limiter     = ratelimit.Unlimited{}
		revoker security.TokenRevoker = security.NewMemoryTokenRevoker()
	)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("Failed to ping redis", "error", err, "addr", cfg.Redis.Addr)
			log.Fatalf("Failed to ping redis: %v", err)
		}

		fw, err := ratelimit.NewFixedWindowLimiter(rdb, cfg.Redis.KeyPrefix+":login", cfg.RateLimit.LoginAttempts, cfg.RateLimitWindow())
		if err != nil {
			log.Fatalf("Failed to initialize rate limiter: %v", err)
		}
		limiter = fw
		revoker = security.NewRedisTokenRevoker(rdb, cfg.Redis.KeyPrefix+":revoked")
		logger.Info("Redis connection established", "addr", cfg.Redis.Addr)
	} else {
		logger.Warn("Redis not configured; login rate limiting disabled and revocations kept in memory")
	}

	tokenManager := security.NewTokenManager(cfg.Session.Secret, cfg.SessionTTL())

	// Initialize Storage Service
	images, err := storage.New(storage.Config{
		Type:           cfg.Storage.Type,
		LocalDir:       cfg.Storage.UploadDir,
		BaseURL:        cfg.Storage.BaseURL,
		MinioEndpoint:  cfg.Storage.MinioEndpoint,
		MinioAccessKey: cfg.Storage.MinioAccessKey,
		MinioSecretKey: cfg.Storage.MinioSecretKey,
		MinioBucket:    cfg.Storage.MinioBucket,
		MinioUseSSL:    cfg.Storage.MinioUseSSL,
		PresignTTL:     time.Duration(cfg.Storage.PresignTTLMinutes) * time.Minute,
	})
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "type", cfg.Storage.Type)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	localMedia, _ := images.(*storage.LocalStore)

	// Initialize Email Service
	var emailSvc service.EmailService
	switch cfg.Email.Provider {
	case "sendgrid":
		emailSvc = service.NewSendGridEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress, cfg.Email.FromName)
	default:
		emailSvc = service.NewNoopEmailService()
	}

	// Initialize Services
	maxUpload := cfg.Storage.MaxFileSize << 20
	authSvc := service.NewAuthService(store.UserRepository, tokenManager, revoker, limiter)
	propertySvc := service.NewPropertyService(store.PropertyRepository, images, service.ImageRules{
		MaxBytes:     maxUpload,
		AllowedTypes: cfg.Storage.AllowedTypes,
	})
	bookingSvc := service.NewBookingService(store.BookingRepository, store.PropertyRepository, store.UserRepository, emailSvc)
	chatSvc := service.NewChatService(store.ChatRepository, store.PropertyRepository, store.UserRepository, images)
	maintenanceSvc := service.NewMaintenanceService(store.MaintenanceRepository, store.BookingRepository, store.PropertyRepository)
	paymentSvc := service.NewPaymentService(store.PaymentRepository, store.UserRepository, store.BookingRepository, emailSvc, receipt.NewPDFRenderer())
	dashboardSvc := service.NewDashboardService(store.PropertyRepository, store.BookingRepository, store.MaintenanceRepository, chatSvc, images)

	// Initialize HTTP handler
	handler, err := httpapi.NewHandler(httpapi.Services{
		Auth:        authSvc,
		Properties:  propertySvc,
		Bookings:    bookingSvc,
		Chats:       chatSvc,
		Maintenance: maintenanceSvc,
		Payments:    paymentSvc,
		Dashboards:  dashboardSvc,
	}, httpapi.Options{
		Cookies: httpapi.CookieConfig{
			Session:    cfg.Session.CookieName,
			Flash:      cfg.Session.FlashCookie,
			Secure:     cfg.Server.SecureCookies,
			SessionTTL: cfg.SessionTTL(),
		},
		TrustedProxies: cfg.Server.TrustedProxies,
		MaxUploadBytes: maxUpload,
		Media:          localMedia,
	})
	if err != nil {
		logger.Error("Failed to initialize HTTP handler", "error", err)
		log.Fatalf("Failed to initialize HTTP handler: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           handler.Router(),
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
