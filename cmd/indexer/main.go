package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/config"
	"github.com/giomambre/cv-job-matching/internal/engine"
	"github.com/giomambre/cv-job-matching/internal/indexing"
	logpkg "github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/internal/version"
	"github.com/giomambre/cv-job-matching/model"
)

func main() {
	var (
		help        = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Path to a YAML config file; its model section supplies fit settings")
		input       = flag.String("input", "job_ads.csv", "CSV corpus to index")
		modelVer    = flag.String("model-version", "", "Model version to build or inspect (default: artifacts.version)")
		dataDir     = flag.String("data-dir", "", "Directory holding model versions (default: artifacts.dir)")
		maxFeatures = flag.Int("max-features", 0, "Vocabulary size limit (default: model.max_features)")
		textColumn  = flag.String("text-column", "", "Corpus column to learn the vocabulary from (default: model.text_column)")
		inspect     = flag.Bool("inspect", false, "Inspect a built model instead of building one")
		row         = flag.Int("row", 0, "Corpus row to describe with -inspect")
		top         = flag.Int("top", 20, "Number of terms to print with -inspect")
		query       = flag.String("query", "", "Text to vectorize with -inspect")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Indexer - fits the TF-IDF weighting model over a job ad corpus\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s --input job_ads.csv --model-version v1   # Build ./model_data/v1\n", os.Args[0])
		fmt.Printf("  %s --inspect --model-version v1 --row 3     # Show top IDF terms and row 3\n", os.Args[0])
		return
	}
	if *showVersion {
		fmt.Printf("indexer %s\n", version.String())
		return
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
	if *dataDir != "" {
		cfg.Artifacts.Dir = *dataDir
	}
	if *modelVer != "" {
		cfg.Artifacts.Version = *modelVer
	}
	if *maxFeatures != 0 {
		cfg.Model.MaxFeatures = *maxFeatures
	}
	if *textColumn != "" {
		cfg.Model.TextColumn = *textColumn
	}

	logger, err := logpkg.NewLogger(config.GetEnv(), cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if *inspect {
		if err := runInspect(cfg, *row, *top, *query, logger); err != nil {
			logger.Fatal("Inspection failed", zap.Error(err))
		}
		return
	}

	builder, err := indexing.NewBuilder(cfg.Model, logger)
	if err != nil {
		logger.Fatal("Invalid model settings", zap.Error(err))
	}
	artifacts, err := builder.BuildFile(*input, cfg.Artifacts.Dir, cfg.Artifacts.Version)
	if err != nil {
		logger.Fatal("Indexing failed", zap.String("input", *input), zap.Error(err))
	}

	fmt.Printf("Built model %s: %d documents, %d vocabulary terms -> %s\n",
		cfg.Artifacts.Version,
		artifacts.Vectors.Len(),
		artifacts.Model.Dimension(),
		indexing.VersionDir(cfg.Artifacts.Dir, cfg.Artifacts.Version),
	)
}

func runInspect(cfg config.Config, row, top int, query string, logger *zap.Logger) error {
	m, err := engine.Load(cfg.Artifacts.Dir, cfg.Artifacts.Version, engine.Options{Logger: logger})
	if err != nil {
		return err
	}

	stats := m.Stats(top)
	fmt.Printf("Model %s: %d documents, %d vocabulary terms (max %d), text column %q, %d stop phrases\n\n",
		stats.Version, stats.Documents, stats.VocabularyTerms, stats.MaxFeatures, stats.TextColumn, stats.StopPhrases)

	fmt.Printf("Top %d terms by IDF:\n", len(stats.TopTerms))
	printTerms(stats.TopTerms)

	detail, err := m.Document(row, top)
	if err != nil {
		return err
	}
	fmt.Printf("\nRow %d: %s at %s\n", row, detail.Job.Role, detail.Job.Company)
	printTerms(detail.Terms)

	if query != "" {
		_, terms, err := m.Analyze(query)
		if err != nil {
			return err
		}
		fmt.Printf("\nQuery terms:\n")
		if len(terms) == 0 {
			fmt.Printf("  (no vocabulary terms)\n")
		}
		printTerms(terms)
	}
	return nil
}

func printTerms(terms []model.TermWeight) {
	for _, t := range terms {
		fmt.Printf("  %-30s %.4f\n", t.Term, t.Weight)
	}
}
