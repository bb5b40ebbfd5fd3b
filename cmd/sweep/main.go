package main

import (
	"context"
	"log"
	"os"
	"time"

	"coffee-reco/internal/config"
	"coffee-reco/internal/db"
	"coffee-reco/internal/domain"
	"coffee-reco/internal/repository"
	"coffee-reco/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// sweep borra una vez los analisis efimeros vencidos. Pensado para cron o un CronJob.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	svc := service.NewAnalysisService(nil, repository.NewPgAnalysisRepository(pool), logger, nil)
	deleted, err := svc.SweepExpired(ctx)
	if err != nil {
		logger.Error("sweep failed", zap.Error(err))
		pool.Close()
		os.Exit(1)
	}
	logger.Info("sweep finished", zap.Int64("deleted", deleted), zap.Duration("ttl", domain.AnalysisTTL))
}
