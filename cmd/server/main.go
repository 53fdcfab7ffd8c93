package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"addition-chain-db/internal/api"
	"addition-chain-db/internal/chain"
	"addition-chain-db/internal/config"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML config file (optional)")
	dataDir := flag.String("data", "", "Dataset directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}

	logger, err := initLogger(cfg.Logging.Level)
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("loading chain database", zap.String("dir", cfg.Data.Dir), zap.Bool("strict", cfg.Data.Strict))

	start := time.Now()
	store, err := chain.Load(cfg.Data.Dir, chain.LoadOptions{
		Strict:       cfg.Data.Strict,
		AllowMissing: cfg.Data.AllowMissing,
		Workers:      cfg.Data.Workers,
	})
	if err != nil {
		logger.Fatal("failed to load chain database", zap.Error(err))
	}

	stats := store.Stats()
	logger.Info("chain database loaded",
		zap.Int("targets", stats.Targets),
		zap.Int("chains", stats.Chains),
		zap.Duration("elapsed", time.Since(start)))

	server := api.NewServer(store, logger, api.NewMetrics())

	s := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down gracefully")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("addr", cfg.Addr()))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// initLogger initializes the zap logger at the configured level.
func initLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
