package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"caradvisor/internal/config"
	"caradvisor/internal/handler"
	"caradvisor/internal/logger"
	"caradvisor/internal/repository"
	"caradvisor/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	log.Info("car advisor starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	gin.SetMode(cfg.Server.GinMode)

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgresDSN(),
		cfg.Postgres.MaxConnections,
		cfg.Postgres.MaxIdleConnections,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer repo.Close()
	log.Info("connected to PostgreSQL")

	var completionClient service.CompletionClient
	if cfg.OpenAI.Enabled {
		completionClient = service.NewOpenAIClient(&cfg.OpenAI)
		log.Info("completion client initialized",
			zap.String("api_base", cfg.OpenAI.APIBase),
			zap.String("model", cfg.OpenAI.ChatModel))
	} else {
		log.Warn("OPENAI_API_KEY not set, chat replies will degrade to fallback text")
	}

	extractor := service.NewFilterExtractor(completionClient, log,
		cfg.OpenAI.ExtractTemperature, cfg.Chat.HistoryWindow)
	composer := service.NewResponseComposer(completionClient, log,
		cfg.OpenAI.ReplyTemperature, cfg.OpenAI.ReplyMaxTokens, cfg.Chat.MaxCars)
	chatService := service.NewChatService(repo, extractor, composer, log, cfg.Chat.MaxCars)

	chatHandler := handler.NewChatHandler(chatService)
	carsHandler := handler.NewCarsHandler(repo)
	healthHandler := handler.NewHealthHandler(Version)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/chat", chatHandler.Chat)

		apiV1.GET("/cars", carsHandler.List)
		apiV1.GET("/cars/:id", carsHandler.Get)
		apiV1.POST("/cars", carsHandler.Create)
		apiV1.PUT("/cars/:id", carsHandler.Update)
		apiV1.DELETE("/cars/:id", carsHandler.Delete)
		apiV1.POST("/cars/compare", carsHandler.Compare)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
