package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"addition-chain-db/internal/chain"
)

func main() {
	inputDir := flag.String("input", "", "Dataset directory to verify (required)")
	workers := flag.Int("workers", 0, "Concurrent file parses (default: GOMAXPROCS)")
	allowMissing := flag.Bool("allow-missing", false, "Tolerate index entries without a chain file")
	flag.Parse()

	if *inputDir == "" {
		fmt.Fprintf(os.Stderr, "Error: --input flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	if _, err := os.Stat(*inputDir); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: dataset directory '%s' does not exist\n", *inputDir)
		os.Exit(1)
	}

	fmt.Printf("Addition Chain Database Verifier\n")
	fmt.Printf("=================================\n\n")
	fmt.Printf("Dataset directory: %s\n", *inputDir)
	fmt.Println()

	programStart := time.Now()
	progressCallback := func(msg string) {
		elapsed := time.Since(programStart)
		fmt.Printf("[%s] %s\n", formatElapsed(elapsed), msg)
	}

	startTime := time.Now()
	store, err := chain.Load(*inputDir, chain.LoadOptions{
		Strict:       true,
		AllowMissing: *allowMissing,
		Workers:      *workers,
		Progress:     progressCallback,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nVerification failed: %v\n", err)
		os.Exit(1)
	}

	stats := store.Stats()

	fmt.Printf("\n✓ Dataset verified\n")
	fmt.Printf("  Targets: %d (n=%d..%d)\n", stats.Targets, stats.MinN, stats.MaxN)
	fmt.Printf("  Chains: %d (%d brauer, %d non-brauer)\n", stats.Chains, stats.BrauerChains, stats.NonBrauerChains)
	fmt.Printf("  Longest chain: %d elements\n", stats.MaxSize)
	fmt.Printf("  Verification time: %s\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Println()
}

// formatElapsed formats a duration into a human-readable elapsed time string
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes > 0 {
		return fmt.Sprintf("%dm%02ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
