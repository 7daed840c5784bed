// Package main provides the standalone scrape command: fetch the configured
// country pages, extract raw metric records and write them to CSV without
// cleaning or derivation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gdm/internal/config"
	"gdm/internal/export"
	"gdm/internal/logger"
	"gdm/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML configuration file (optional)")
	url := flag.String("url", "", "Scrape a single URL instead of the configured sources")
	output := flag.String("output", "", "Override output CSV path")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	log := logger.NewLogger(*logLevel)

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Configuration error: %v", err))
			os.Exit(1)
		}

		cfg = loaded
	}

	if *url != "" {
		cfg.Pipeline.Sources = config.SourcesConfig{
			Pages: []config.SourceConfig{{Name: "cli", URL: *url, Enabled: true}},
		}
	}

	outPath := cfg.Pipeline.Output.OutputPath(cfg.Pipeline.Output.RawCSV)
	if *output != "" {
		outPath = *output
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("🌐 Starting scrape run")

	raw, stats, err := pipeline.New(cfg, log).Scrape(ctx)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Scrape failed: %v", err))
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Error(fmt.Sprintf("❌ Creating output directory: %v", err))
		os.Exit(1)
	}

	if err := export.WriteCSV(outPath, raw); err != nil {
		log.Error(fmt.Sprintf("❌ Writing CSV: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Wrote %d records to %s", raw.Len(), outPath))

	rate := stats.SuccessRate()
	target := cfg.Pipeline.Quality.SuccessRateTarget

	fmt.Printf("\nScraped %d/%d sources (%.1f%%, target %.1f%%)\n",
		stats.Extracted, stats.SourcesTotal, rate, target)

	if rate < target {
		fmt.Println("⚠️  Success rate below target")
		os.Exit(2)
	}
}
