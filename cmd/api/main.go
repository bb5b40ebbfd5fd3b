package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"coffee-reco/internal/config"
	"coffee-reco/internal/db"
	apihttp "coffee-reco/internal/http"
	"coffee-reco/internal/metrics"
	"coffee-reco/internal/repository"
	"coffee-reco/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			// la cache es fail-open; se deja el cliente y cada fallo cae al repositorio
			logger.Warn("redis ping failed", zap.Error(err))
		}
		cancel()
		defer redisClient.Close()
	}

	var (
		appMetrics     *metrics.Metrics
		analysisObs    service.AnalysisMetrics
		results        apihttp.ResultRecorder
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		appMetrics = metrics.New(prometheus.DefaultRegisterer)
		analysisObs = appMetrics
		results = appMetrics
		metricsHandler = promhttp.Handler()
	}

	catalogRepo := repository.NewRedisCatalogCache(repository.NewPgCatalogRepository(pool), redisClient, cfg.CatalogCacheTTL, logger)
	analysisRepo := repository.NewPgAnalysisRepository(pool)
	collectionRepo := repository.NewPgCollectionRepository(pool)

	analysisSvc := service.NewAnalysisService(catalogRepo, analysisRepo, logger, analysisObs)
	collectionSvc := service.NewCollectionService(analysisRepo, collectionRepo, logger)
	saveStatus := service.NewSaveStatusResolver(collectionRepo, logger)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, 0)
	if !jwtSvc.Enabled() {
		logger.Warn("jwt secret not configured, owner checks disabled")
	}

	recoHandler := apihttp.NewRecoHandler(logger, analysisSvc, results)
	collectionHandler := apihttp.NewCollectionHandler(logger, collectionSvc, saveStatus, results)
	var catalogCache apihttp.CatalogInvalidator
	if inv, ok := catalogRepo.(apihttp.CatalogInvalidator); ok {
		catalogCache = inv
	}
	adminHandler := apihttp.NewAdminHandler(logger, pool, analysisSvc, catalogCache, cfg.AdminToken, results)

	var reqMetrics apihttp.RequestMetrics
	if appMetrics != nil {
		reqMetrics = appMetrics
	}
	router := apihttp.NewRouter(logger, jwtSvc, recoHandler, collectionHandler, adminHandler, reqMetrics, metricsHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
