package main

import (
	"flag"
	"os"
	"time"

	"go.uber.org/zap"

	"addition-chain-db/internal/chain"
	"addition-chain-db/internal/sqlite"
)

func main() {
	inputDir := flag.String("input", "", "Dataset directory to import (required)")
	strict := flag.Bool("strict", true, "Verify chain invariants before importing")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if *inputDir == "" {
		logger.Fatal("--input flag is required")
	}

	dbPath := getDBPath()
	logger.Info("importing dataset", zap.String("input", *inputDir), zap.String("db", dbPath))

	start := time.Now()
	store, err := chain.Load(*inputDir, chain.LoadOptions{Strict: *strict})
	if err != nil {
		logger.Fatal("failed to load dataset", zap.Error(err))
	}

	db, err := sqlite.InitDB(dbPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	importID, err := sqlite.Import(db, store, *inputDir)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	stats := store.Stats()
	logger.Info("import complete",
		zap.String("import_id", importID),
		zap.Int("targets", stats.Targets),
		zap.Int("chains", stats.Chains),
		zap.Duration("elapsed", time.Since(start)))
}

func getDBPath() string {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./chains.db"
	}
	return dbPath
}
