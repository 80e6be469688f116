package container

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"github.com/qingping857/Blind-date-platform/internal/config"
	"github.com/qingping857/Blind-date-platform/internal/delivery/http"
	"github.com/qingping857/Blind-date-platform/internal/delivery/http/handler"
	"github.com/qingping857/Blind-date-platform/internal/delivery/http/middleware"
	"github.com/qingping857/Blind-date-platform/internal/infrastructure/database"
	"github.com/qingping857/Blind-date-platform/internal/infrastructure/email"
	"github.com/qingping857/Blind-date-platform/internal/infrastructure/server"
	"github.com/qingping857/Blind-date-platform/internal/infrastructure/storage"
	"github.com/qingping857/Blind-date-platform/internal/logger"
	"github.com/qingping857/Blind-date-platform/internal/repository/postgres"
	redisrepo "github.com/qingping857/Blind-date-platform/internal/repository/redis"
	"github.com/qingping857/Blind-date-platform/internal/usecase/auth"
	"github.com/qingping857/Blind-date-platform/internal/usecase/contact"
	"github.com/qingping857/Blind-date-platform/internal/usecase/profile"
	"github.com/qingping857/Blind-date-platform/internal/usecase/square"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *goredis.Client
	Auth   *auth.AuthUseCase
	Server *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize Redis
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize photo storage
	photoStorage, err := storage.NewLocalStorage(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize verification-code sender
	var codeSender email.CodeSender
	if cfg.SMTP.Host != "" {
		codeSender = email.NewSMTPSender(&cfg.SMTP)
	} else {
		logger.Warn("no SMTP host configured, verification codes will be logged")
		codeSender = email.NewLogSender()
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	contactRepo := postgres.NewContactRequestRepository(db)
	codeRepo := redisrepo.NewVerificationCodeRepository(redisClient)

	// Initialize use cases
	authUseCase := auth.NewAuthUseCase(
		userRepo,
		sessionRepo,
		codeRepo,
		codeSender,
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
	)
	profileUseCase := profile.NewProfileUseCase(userRepo)
	squareUseCase := square.NewSquareUseCase(userRepo, contactRepo)
	contactUseCase := contact.NewContactUseCase(contactRepo, userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase, photoStorage)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	squareHandler := handler.NewSquareHandler(squareUseCase)
	contactHandler := handler.NewContactHandler(contactUseCase)
	uploadHandler := handler.NewUploadHandler(photoStorage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := http.NewRouter(
		authHandler,
		profileHandler,
		squareHandler,
		contactHandler,
		uploadHandler,
		authMiddleware,
		cfg.Storage.Path,
		cfg.Storage.BaseURL,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter)

	return &Container{
		Config: cfg,
		DB:     db,
		Redis:  redisClient,
		Auth:   authUseCase,
		Server: srv,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	// Close Redis
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", "error", err)
		}
	}

	// Close database
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
