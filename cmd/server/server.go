package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Mandar-Sonkusare/esg/internal/auth"
	"github.com/Mandar-Sonkusare/esg/internal/config"
	"github.com/Mandar-Sonkusare/esg/internal/database"
	_ "github.com/Mandar-Sonkusare/esg/internal/docs"
	"github.com/Mandar-Sonkusare/esg/internal/errors"
	"github.com/Mandar-Sonkusare/esg/internal/history"
	"github.com/Mandar-Sonkusare/esg/internal/middleware"
	"github.com/Mandar-Sonkusare/esg/internal/monitoring"
	"github.com/Mandar-Sonkusare/esg/internal/ratelimit"
	"github.com/Mandar-Sonkusare/esg/internal/scoring"
	"github.com/Mandar-Sonkusare/esg/internal/security"
	"github.com/Mandar-Sonkusare/esg/internal/submission"
	"github.com/Mandar-Sonkusare/esg/internal/types"
)

const version = "1.0.0"

// server owns every long lived component of the API
type server struct {
	cfg     *config.Config
	logger  *monitoring.Logger
	metrics *monitoring.Metrics

	store      database.Store
	engine     *scoring.Engine
	auth       *auth.Service
	history    *history.Service
	submission *submission.Service
	redis      *ratelimit.RedisClient
	limiter    *ratelimit.RateLimiter
	security   *security.SecurityMiddleware
	compressor *middleware.CompressionMiddleware
}

func newServer(ctx context.Context, cfg *config.Config, logger *monitoring.Logger) (*server, error) {
	scoringConfig := scoring.DefaultConfig()
	if cfg.ScoringConfigPath != "" {
		loaded, err := scoring.LoadConfig(cfg.ScoringConfigPath)
		if err != nil {
			return nil, errors.NewConfigurationError("failed to load scoring config", err)
		}
		scoringConfig = loaded
		logger.Info("Loaded scoring config", "path", cfg.ScoringConfigPath)
	}

	store, err := database.Open(ctx, cfg.DataDir, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	redisClient, err := ratelimit.NewRedisClient(ctx, ratelimit.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("Redis unavailable, continuing with in-memory rate limits", "error", err)
	}

	metrics := monitoring.NewMetrics()
	engine := scoring.New(scoringConfig)

	authConfig := auth.DefaultConfig()
	authConfig.AccessSecret = cfg.JWTSecret
	authConfig.RefreshSecret = cfg.RefreshSecret

	historyService := history.NewService(store, cfg.CacheTTL, cfg.TrendLimit, metrics)

	s := &server{
		cfg:        cfg,
		logger:     logger,
		metrics:    metrics,
		store:      store,
		engine:     engine,
		auth:       auth.NewService(store, authConfig),
		history:    historyService,
		submission: submission.NewService(engine, store, historyService, metrics, logger),
		redis:      redisClient,
		limiter: ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
			IPLimitPerMin:      cfg.RateLimitPerMin,
			SubmitLimitPerHour: cfg.SubmitLimitPerHour,
		}, metrics),
		security: security.NewSecurityMiddleware(security.SecurityConfig{
			AllowedOrigins: cfg.CORSOrigins,
			EnableHSTS:     cfg.EnableHSTS,
		}),
		compressor: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
	}

	logger.SystemLogger("startup", fmt.Sprintf("store=%T redis=%t", store, redisClient.IsEnabled()))
	return s, nil
}

func (s *server) router() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(s.logger, s.security.Config().MaxBodyBytes))
	r.Use(s.compressor.Handler())

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	r.Use(s.security.CORS())
	r.Use(s.security.SecurityHeaders)
	r.Use(s.security.RequestTimeout)
	r.Use(s.security.LimitBody)
	r.Use(s.security.ValidateContentType)
	r.Use(s.limiter.IPRateLimitMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Backend running")
	})
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.GET("/ratelimit/status", s.limiter.HandleRateLimitStatus)

	s.auth.RegisterRoutes(api.Group("/auth"))

	api.GET("/esg/benchmarks", s.submission.HandleBenchmarks)
	esg := api.Group("/esg", s.auth.Middleware())
	s.submission.RegisterRoutes(esg, s.limiter.SubmitRateLimitMiddleware())
	s.history.RegisterRoutes(esg)

	return r
}

// handleHealth godoc
// @Summary Service and store health
// @Tags system
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Failure 503 {object} types.HealthResponse
// @Router /health [get]
func (s *server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := types.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   version,
		Database:  s.store.Stats(),
	}

	status := http.StatusOK
	if err := s.store.Ping(ctx); err != nil {
		slog.Error("Store health check failed", "error", err)
		response.Status = "degraded"
		response.Database["error"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}

// handleMetrics godoc
// @Summary Request, scoring, cache and rate limit counters
// @Tags system
// @Produce json
// @Router /metrics [get]
func (s *server) handleMetrics(c *gin.Context) {
	stats := s.metrics.GetStats()
	stats["history_cache"] = s.history.CacheStats()
	stats["rate_limiter"] = s.limiter.GetStats()
	stats["compression"] = s.compressor.GetStats()
	c.JSON(http.StatusOK, stats)
}

// Close releases components in reverse order of construction
func (s *server) Close() {
	s.limiter.Close()
	errors.SafeClose(s.redis, "redis client")
	s.history.Close()
	errors.SafeClose(s.store, "store")
}
