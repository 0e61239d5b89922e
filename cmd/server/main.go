package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/config"
	"prelanding-studio/internal/handler"
	"prelanding-studio/internal/logger"
	"prelanding-studio/internal/middleware"
	"prelanding-studio/internal/notify"
	"prelanding-studio/internal/scenario"
	"prelanding-studio/internal/store"
	"prelanding-studio/internal/workspace"
)

func main() {
	// Логгер для этапа загрузки конфигурации
	bootLogger, _ := zap.NewProduction()

	cfg, err := config.LoadConfig(bootLogger)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Encoding:   cfg.Log.Encoding,
		OutputPath: cfg.Log.OutputPath,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)
	log.Info("Logger initialized", zap.String("logLevel", cfg.Log.Level))

	if err := run(cfg, log); err != nil {
		log.Fatal("Studio server stopped with error", zap.Error(err))
	}
	log.Info("Server exiting")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- External Connections ---
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		var err error
		redisClient, err = setupRedis(ctx, cfg, log)
		if err != nil {
			// Redis необязателен: снимки и лимиты переходят в память процесса
			log.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var snapshots store.SnapshotStore
	var rateStore ratelimit.Store
	if redisClient != nil {
		snapshots = store.NewRedisStore(redisClient, log)
		rateStore = ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: redisClient,
			Rate:        cfg.GenerateRateWindow,
			Limit:       cfg.GenerateRateLimit,
		})
	} else {
		snapshots = store.NewMemoryStore()
		rateStore = ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
			Rate:  cfg.GenerateRateWindow,
			Limit: cfg.GenerateRateLimit,
		})
	}

	// --- Dependency Injection ---
	api, err := client.NewStudioClient(cfg.APIURL, cfg.ClientTimeout, cfg.APIToken, log)
	if err != nil {
		return fmt.Errorf("failed to create studio client: %w", err)
	}
	scenarios := scenario.NewManager(api, log)
	hub := notify.NewHub(log)
	unsubscribeHub := scenarios.Subscribe(hub.ScenariosUpdated)
	defer unsubscribeHub()

	registry := workspace.NewRegistry(api, scenarios, snapshots, cfg.WorkspaceTTL, log)
	defer registry.Close()

	// Первичная загрузка сценариев; при ошибке список подтянется при первом запросе
	initCtx, initCancel := context.WithTimeout(ctx, 10*time.Second)
	if _, err := scenarios.List(initCtx); err != nil {
		log.Warn("Initial scenario load failed", zap.Error(err))
	}
	initCancel()

	studioHandler := handler.NewStudioHandler(
		registry,
		scenarios,
		hub,
		notify.NewUpgrader(cfg.CORSAllowedOrigins),
		handler.Options{CookieTTL: cfg.WorkspaceTTL, CookieSecure: cfg.CookieSecure},
		log,
	)

	rateLimitMiddleware := ratelimit.RateLimiter(rateStore, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			log.Warn("Rate limit exceeded",
				zap.String("clientIP", c.ClientIP()),
				zap.Time("resetTime", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handler.ErrorResponse{
				Code:    "rate_limited",
				Message: "Слишком много запросов. Повторите через " + time.Until(info.ResetTime).Round(time.Second).String(),
			})
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapLogger(log))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("studio")

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	studioHandler.RegisterRoutes(router, rateLimitMiddleware)

	// Prometheus подключается после регистрации роутов
	p.Use(router)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// Генерация держит соединение до ответа сервиса
		WriteTimeout: cfg.ClientTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return registry.RunJanitor(gctx, cfg.JanitorInterval)
	})
	g.Go(func() error {
		log.Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server listen error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server forced to shutdown", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}

// setupRedis подключается к Redis с несколькими попытками.
func setupRedis(ctx context.Context, cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	log.Info("Redis connection options configured", zap.String("address", redisOpts.Addr), zap.Int("db", redisOpts.DB))

	const maxRetries = 5
	const retryDelay = 2 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		client := redis.NewClient(redisOpts)
		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		pingCancel()
		if err == nil {
			log.Info("Successfully connected and pinged Redis", zap.Int("attempt", attempt))
			return client, nil
		}
		_ = client.Close()
		lastErr = err
		log.Warn("Redis ping failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, lastErr)
}
