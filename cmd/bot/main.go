package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camuig/upbit-trader/internal/ai"
	"github.com/camuig/upbit-trader/internal/chart"
	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/executor"
	"github.com/camuig/upbit-trader/internal/ledger"
	"github.com/camuig/upbit-trader/internal/logger"
	"github.com/camuig/upbit-trader/internal/scheduler"
	"github.com/camuig/upbit-trader/internal/sentiment"
	"github.com/camuig/upbit-trader/internal/telegram"
	"github.com/camuig/upbit-trader/internal/upbit"
	"github.com/camuig/upbit-trader/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dbPath := flag.String("db", "data/trading_history.db", "path to SQLite database")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("starting upbit-trader", "market", cfg.Trading.Market, "interval", cfg.Trading.Interval)

	db, err := ledger.NewDatabase(*dbPath)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	store := ledger.NewStore(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exchange := upbit.NewClient(cfg, log)
	aiClient := ai.NewClient(cfg, log)
	reflector := ai.NewReflector(aiClient, log)
	engine := ai.NewEngine(aiClient, log)
	sentimentClient := sentiment.NewClient(cfg, log)
	exec := executor.NewExecutor(exchange, cfg, log)
	notifier := telegram.NewNotifier(cfg, log)

	var capturer scheduler.ChartCapturer
	if cfg.Chart.Enabled {
		capturer = chart.NewCapturer(cfg, log)
	}

	sched := scheduler.New(
		exchange, exchange, sentimentClient, capturer,
		reflector, engine, exec, store, notifier,
		cfg, log,
	)
	webServer := web.NewServer(store, cfg, log)

	go sched.Run(ctx)

	go func() {
		if err := webServer.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()

	notifier.NotifyStatus(fmt.Sprintf("🤖 upbit-trader started (%s, every %s)", cfg.Trading.Market, cfg.Trading.Interval))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", "error", err)
	}

	notifier.NotifyStatus("🛑 upbit-trader stopped")
	log.Info("upbit-trader stopped")
}
