package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gridfall/internal/balance"
	"gridfall/internal/config"
	"gridfall/internal/db"
	"gridfall/internal/jobs"
	"gridfall/internal/lease"
	"gridfall/internal/sim"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	bal, err := balance.Load(cfg.BalanceFile)
	if err != nil {
		logger.Error("load balance", "err", err)
		os.Exit(1)
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Error("schema init failed", "err", err)
		os.Exit(1)
	}

	rdb, err := lease.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("redis connect failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	svc := sim.NewService(pool, logger, bal)
	if cfg.BootstrapSeason {
		season, err := svc.EnsureSeason(ctx)
		if err != nil {
			logger.Error("season bootstrap failed", "err", err)
			os.Exit(1)
		}
		logger.Info("active season", "id", season.ID, "name", season.Name)
	}

	leases := lease.NewManager(lease.NewRedisStore(rdb), logger)
	runner := lease.NewRunner(leases, logger)
	scheduler := jobs.NewScheduler(runner, logger, jobs.Catalog(svc, logger))

	runOnce := strings.EqualFold(strings.TrimSpace(os.Getenv("GRIDFALL_WORKER_RUN_ONCE")), "true")
	if runOnce {
		scheduler.RunOnce(ctx)
		logger.Info("worker run-once completed")
		return
	}

	logger.Info("worker started")
	scheduler.Run(ctx)
	logger.Info("worker shutdown")
}
