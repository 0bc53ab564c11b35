package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"director-server/internal/config"
	"director-server/internal/generator"
	"director-server/internal/handler"
	"director-server/internal/logger"
	"director-server/internal/service"
	"director-server/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding, Service: "director-server"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	zapLogger.Info("Starting director server", cfg.LogFields()...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen := newGenerator(ctx, cfg, zapLogger)

	registry := session.NewRegistry(gen, cfg.SessionTTL, zapLogger)
	go registry.Run(ctx, cfg.SessionSweepInterval)

	directorHandler := handler.NewDirectorHandler(registry, cfg.GetAllowedOrigins(), zapLogger)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(handler.GinZapLogger(zapLogger))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	if origins := cfg.GetAllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
		zapLogger.Info("CORS_ALLOWED_ORIGINS not set, allowing all origins")
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "credential": cfg.HasCredential()})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	directorHandler.RegisterRoutes(router)

	// Applied after the routes so every handler is instrumented; also serves /metrics.
	p.Use(router)

	srv := &http.Server{
		Addr:        ":" + cfg.HTTPServerPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: websocket streams outlive any fixed deadline.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		zapLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	cancel()
	registry.CloseAll()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}

// newGenerator wires the generation client. Without a credential no backend is
// built and every generation fails with a missing-credential error.
func newGenerator(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) *generator.Client {
	var aiClient service.AIClient
	if cfg.HasCredential() {
		c, err := service.NewAIClient(ctx, cfg, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to initialize AI client", zap.Error(err))
		}
		aiClient = c
	} else {
		zapLogger.Warn("API_KEY is not set; generation requests will fail until it is configured")
	}
	return generator.NewClient(aiClient, cfg.AITemperature, cfg.AITimeout, zapLogger)
}
