package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/config"
	logpkg "github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/internal/scraper"
	"github.com/giomambre/cv-job-matching/internal/version"
)

func main() {
	var (
		help        = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Path to a YAML config file; its scraper section supplies fetch settings")
		keyword     = flag.String("keyword", "", "Search keyword (required)")
		location    = flag.String("location", "", "Search location")
		sites       = flag.String("sites", "", "Comma-separated job boards (default: scraper.sites)")
		maxPages    = flag.Int("max-pages", 0, "Result pages per board (default: scraper.max_pages)")
		outJSON     = flag.String("out-json", "", "Write listings as JSON to this file")
		outCSV      = flag.String("out-csv", "", "Write listings as a corpus CSV to this file")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Scraper - collects job listings from job boards\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nBoards: %s\n", strings.Join(scraper.SourceNames(), ", "))
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s --keyword python --location Milano --out-csv corpus/jobs.csv\n", os.Args[0])
		fmt.Printf("  %s --keyword \"data engineer\" --sites indeed --max-pages 5 --out-json jobs.json\n", os.Args[0])
		return
	}
	if *showVersion {
		fmt.Printf("scraper %s\n", version.String())
		return
	}
	if strings.TrimSpace(*keyword) == "" {
		fmt.Fprintln(os.Stderr, "--keyword is required")
		os.Exit(2)
	}
	if *outJSON == "" && *outCSV == "" {
		fmt.Fprintln(os.Stderr, "at least one of --out-json or --out-csv is required")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *sites != "" {
		cfg.Scraper.Sites = strings.Split(*sites, ",")
	}
	if *maxPages > 0 {
		cfg.Scraper.MaxPages = *maxPages
	}

	logger, err := logpkg.NewLogger(config.GetEnv(), cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	var sources []scraper.Source
	for _, name := range scraper.SourceNames() {
		src, err := scraper.NewSource(name, "")
		if err != nil {
			logger.Fatal("Failed to create source", zap.String("source", name), zap.Error(err))
		}
		sources = append(sources, src)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scraper.New(scraper.NewFetcher(cfg.Scraper, logger), logger)
	manager := scraper.NewManager(s, logger, sources...)

	logger.Info("Scraping job boards",
		zap.String("keyword", *keyword),
		zap.String("location", *location),
		zap.Strings("sites", cfg.Scraper.Sites),
		zap.Int("max_pages", cfg.Scraper.MaxPages),
	)
	listings, err := manager.ScrapeAll(ctx, *keyword, *location, cfg.Scraper.MaxPages, cfg.Scraper.Sites)
	if err != nil {
		logger.Fatal("Scraping interrupted", zap.Error(err))
	}

	if *outJSON != "" {
		if err := scraper.SaveJSON(*outJSON, listings); err != nil {
			logger.Fatal("Failed to write JSON", zap.String("path", *outJSON), zap.Error(err))
		}
	}
	if *outCSV != "" {
		if err := scraper.ToTable(listings).WriteFile(*outCSV); err != nil {
			logger.Fatal("Failed to write CSV", zap.String("path", *outCSV), zap.Error(err))
		}
	}

	fmt.Printf("Scraped %d listings\n", len(listings))
}
