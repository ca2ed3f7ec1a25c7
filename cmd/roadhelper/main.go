package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadhelper/roadhelper/internal/pkg/config"
	"github.com/roadhelper/roadhelper/internal/pkg/database"
	"github.com/roadhelper/roadhelper/internal/pkg/health"
	"github.com/roadhelper/roadhelper/internal/pkg/logger"
	"github.com/roadhelper/roadhelper/internal/pkg/middleware"
	"github.com/roadhelper/roadhelper/internal/pkg/nats"
	"github.com/roadhelper/roadhelper/internal/pkg/server"
	"github.com/roadhelper/roadhelper/internal/pkg/websocket"
	requestsGateway "github.com/roadhelper/roadhelper/services/requests/gateway"
	requestsHandler "github.com/roadhelper/roadhelper/services/requests/handler"
	requestsRepo "github.com/roadhelper/roadhelper/services/requests/repository"
	requestsUsecase "github.com/roadhelper/roadhelper/services/requests/usecase"
	usersHandler "github.com/roadhelper/roadhelper/services/users/handler"
	usersRepo "github.com/roadhelper/roadhelper/services/users/repository"
	usersUsecase "github.com/roadhelper/roadhelper/services/users/usecase"
)

func main() {
	appName := "roadhelper"
	configPath := "config/roadhelper.env"
	configs := config.InitConfig(configPath)

	zapLogger, err := logger.NewZapLogger(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()

	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}

	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", logger.Err(err))
	}

	natsClient, err := nats.NewClient(configs.NATS.URL)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", logger.Err(err))
	}

	// Repositories
	userRepository := usersRepo.NewUserRepository(configs, postgresClient.GetDB())
	locationRepository := usersRepo.NewLocationRepository(configs, redisClient)
	requestRepository := requestsRepo.NewRequestRepository(configs, postgresClient.GetDB())

	// Gateway
	requestGW := requestsGateway.NewRequestGW(configs, natsClient)

	// Usecases
	userUC := usersUsecase.NewUserUC(configs, userRepository, locationRepository)
	requestUC := requestsUsecase.NewRequestUC(configs, requestRepository, userRepository, requestGW)

	// Handlers
	wsManager := websocket.NewManager(configs.JWT)
	uHandler := usersHandler.NewHandler(userUC, configs)
	rHandler := requestsHandler.NewHandler(requestUC, wsManager, configs)

	e := echo.New()
	e.HideBanner = true

	// Panic recovery goes first so every later failure is caught
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.ZapEchoMiddleware(zapLogger))

	healthService := health.NewService()
	healthService.AddChecker("postgres", health.NewPostgresChecker(postgresClient))
	healthService.AddChecker("redis", health.NewRedisChecker(redisClient))
	healthService.AddChecker("nats", health.NewNATSChecker(natsClient))
	health.RegisterEndpoints(e, appName, configs.App.Version, healthService)

	uHandler.RegisterRoutes(e)
	rHandler.RegisterRoutes(e)

	shutdownManager := server.NewShutdownManager()
	shutdownManager.Register(func(_ context.Context) error {
		natsClient.Close()
		return nil
	})
	shutdownManager.Register(func(_ context.Context) error {
		return redisClient.Close()
	})
	shutdownManager.Register(func(_ context.Context) error {
		return postgresClient.Close()
	})

	srv := server.NewGracefulServer(e, configs.Server)
	if err := srv.Start(); err != nil {
		logger.Error("Server stopped with error", logger.Err(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdownManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("Component shutdown failed", logger.Err(err))
	}
}
