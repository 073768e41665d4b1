package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"carbazaar/internal/adapter/api"
	"carbazaar/internal/adapter/api/handler"
	apimiddleware "carbazaar/internal/adapter/api/middleware"
	"carbazaar/internal/adapter/api/router"
	"carbazaar/internal/adapter/repository"
	domainrepo "carbazaar/internal/domain/repository"
	"carbazaar/internal/domain/service"
	"carbazaar/internal/infrastructure/firebase"
	"carbazaar/internal/infrastructure/ratelimit"
	"carbazaar/internal/infrastructure/storage"
	"carbazaar/internal/infrastructure/websocket"
	"carbazaar/internal/usecase"
	"carbazaar/pkg/config"
	"carbazaar/pkg/logger"
	"carbazaar/pkg/response"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run wires the service and blocks until shutdown. Errors are returned, not
// exited on, so deferred flushes and client closes always run.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat, cfg.Environment); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var (
		listingRepo  domainrepo.ListingRepository
		userRepo     domainrepo.UserRepository
		chatRepo     domainrepo.ChatRepository
		imageStorage service.ImageStorage
		authMW       *apimiddleware.AuthMiddleware
	)

	switch cfg.StoreDriver {
	case "memory":
		if cfg.AuthEnabled {
			return fmt.Errorf("AUTH_ENABLED requires STORE_DRIVER=firestore")
		}

		logger.Warn("Using in-memory store; data is lost on restart")
		store := repository.NewMemoryStore()
		listingRepo = repository.NewMemoryListingRepository(store)
		userRepo = repository.NewMemoryUserRepository(store)
		chatRepo = repository.NewMemoryChatRepository(store)
		imageStorage = storage.NewMemoryImageStorage()

	default:
		clients, err := firebase.NewClients(ctx, cfg, cfg.AuthEnabled)
		if err != nil {
			return fmt.Errorf("initialize Firebase: %w", err)
		}
		defer clients.Close()

		listingRepo = repository.NewFirestoreListingRepository(clients.Firestore)
		userRepo = repository.NewFirestoreUserRepository(clients.Firestore)
		chatRepo = repository.NewFirestoreChatRepository(clients.Firestore)

		if cfg.StorageBucket != "" {
			storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, clients.Options...)
			if err != nil {
				return fmt.Errorf("initialize Cloud Storage: %w", err)
			}
			defer storageClient.Close()
			imageStorage = storageClient
		} else {
			logger.Warn("STORAGE_BUCKET not set; image uploads are kept in memory")
			imageStorage = storage.NewMemoryImageStorage()
		}

		if cfg.AuthEnabled {
			authMW = apimiddleware.NewAuthMiddleware(firebase.NewFirebaseAuthClient(clients.Auth))
		}
	}

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	listingUseCase := usecase.NewListingUseCase(listingRepo, userRepo, imageStorage, cfg.DefaultPageSize, cfg.MaxPageSize)
	userUseCase := usecase.NewUserUseCase(userRepo, listingRepo)
	chatUseCase := usecase.NewChatUseCase(chatRepo, listingRepo, wsManager, usecase.ChatConfig{
		Timeout:           cfg.ChatTimeout,
		RetryAttempts:     cfg.ChatRetryAttempts,
		RetryDelay:        cfg.ChatRetryDelay,
		MaxMessageLength:  cfg.ChatMaxMessageLength,
		MessagesPerMinute: cfg.MessagesPerMinute,
		DefaultPageSize:   cfg.DefaultPageSize,
		MaxPageSize:       cfg.MaxPageSize,
	})
	chatUseCase.RateLimiter().StartCleanupRoutine(10*time.Minute, ctx.Done())

	requestLimiter := ratelimit.NewRateLimiter(120, time.Minute)
	requestLimiter.StartCleanupRoutine(10*time.Minute, ctx.Done())

	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				logger.L().Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.L().Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("40M"))
	e.Use(apimiddleware.RateLimit(requestLimiter))

	var (
		guards   router.Guards
		wsAdmins handler.AdminChecker
	)
	if authMW != nil {
		adminMW := apimiddleware.NewAdminMiddleware(userRepo)
		guards = router.Guards{Auth: authMW, Admin: adminMW}
		wsAdmins = adminMW
	} else {
		logger.Warn("AUTH_ENABLED is false; admin routes are not protected")
	}

	router.Setup(e, router.Handlers{
		Car:       handler.NewCarHandler(listingUseCase),
		User:      handler.NewUserHandler(userUseCase),
		Chat:      handler.NewChatHandler(chatUseCase),
		WebSocket: handler.NewWebSocketHandler(wsManager, wsAdmins),
		Health:    handler.NewHealthHandler(cfg.StoreDriver),
	}, guards)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case err := <-serverErr:
		runErr = fmt.Errorf("server stopped: %w", err)
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}
	return runErr
}
