// Package main is the snapshot scheduler daemon. It fires shortly
// after each month boundary and generates the snapshot for the month
// that just closed. The engine itself is schedule-agnostic; retries
// amount to re-running this job.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"stockbook/internal/config"
	"stockbook/internal/domain/period"
	"stockbook/internal/domain/snapshot"
	"stockbook/internal/infrastructure/storage/postgres"
	"stockbook/internal/infrastructure/storage/postgres/ledger_repo"
	"stockbook/internal/infrastructure/storage/postgres/product_repo"
	"stockbook/internal/infrastructure/storage/postgres/snapshot_repo"
	"stockbook/pkg/logger"
)

func main() {
	once := flag.Bool("once", false, "generate the previous month's snapshot and exit")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	generator := snapshot.NewGenerator(
		ledger_repo.NewLedgerRepo(txManager),
		product_repo.NewProductRepo(txManager),
		snapshot_repo.NewSnapshotRepo(txManager),
		txManager,
	)

	if *once {
		if err := generatePrevious(ctx, generator); err != nil {
			log.Fatalw("snapshot generation failed", "error", err)
		}
		return
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Snapshot.Cron, func() {
		if err := generatePrevious(ctx, generator); err != nil {
			logger.Error(ctx, "scheduled snapshot generation failed", "error", err)
		}
	})
	if err != nil {
		log.Fatalw("invalid cron expression", "cron", cfg.Snapshot.Cron, "error", err)
	}

	c.Start()
	log.Infow("snapshot scheduler started", "cron", cfg.Snapshot.Cron)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("stopping scheduler...")
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(time.Minute):
		log.Warn("running job did not finish in time")
	}
	log.Info("scheduler stopped")
}

// generatePrevious regenerates the snapshot for the month that just
// closed.
func generatePrevious(ctx context.Context, generator *snapshot.Generator) error {
	p := period.Of(time.Now()).Prev()
	logger.Info(ctx, "generating monthly snapshot", "period", p.String())

	result, err := generator.Generate(ctx, p)
	if err != nil {
		return err
	}

	logger.Info(ctx, "monthly snapshot generated",
		"period", p.String(),
		"product_count", result.ProductCount,
	)
	return nil
}
