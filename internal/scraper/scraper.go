package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/giomambre/cv-job-matching/internal/corpus"
	"github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/internal/metrics"
)

// Scraper walks the result pages of one job board.
type Scraper struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

// New creates a scraper that fetches pages through f.
func New(f *Fetcher, log *zap.Logger) *Scraper {
	return &Scraper{fetcher: f, logger: logger.OrNop(log)}
}

// Scrape collects listings from up to maxPages result pages. It stops at the
// first page without listings. Pages that cannot be fetched are logged and
// skipped; only context cancellation is returned as an error.
func (s *Scraper) Scrape(ctx context.Context, src Source, keyword, location string, maxPages int) ([]Listing, error) {
	var listings []Listing
	log := s.logger.With(zap.String("source", src.Name()), zap.String("keyword", keyword))

	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return listings, err
		}

		pageURL := src.BuildSearchURL(keyword, location, page)
		log.Info("scraping page", zap.Int("page", page+1), zap.String("url", pageURL))

		doc, err := s.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return listings, ctx.Err()
			}
			metrics.ScrapeFetchErrorsTotal.WithLabelValues(src.Name()).Inc()
			log.Warn("skipping page", zap.Int("page", page+1), zap.Error(err))
			continue
		}

		elements := src.ParseListings(doc)
		if elements.Length() == 0 {
			log.Info("no listings found, stopping", zap.Int("page", page+1))
			break
		}

		before := len(listings)
		for i := 0; i < elements.Length(); i++ {
			if listing, ok := src.ParseDetails(elements.Eq(i)); ok {
				listings = append(listings, listing)
			}
		}
		metrics.ScrapedListingsTotal.WithLabelValues(src.Name()).Add(float64(len(listings) - before))
	}
	return listings, nil
}

// Manager scrapes several job boards concurrently.
type Manager struct {
	scraper *Scraper
	sources map[string]Source
	logger  *zap.Logger
}

// NewManager registers sources by name.
func NewManager(s *Scraper, log *zap.Logger, sources ...Source) *Manager {
	m := &Manager{scraper: s, sources: make(map[string]Source, len(sources)), logger: logger.OrNop(log)}
	for _, src := range sources {
		m.sources[src.Name()] = src
	}
	return m
}

// ScrapeAll scrapes the named sites in parallel and returns their listings
// concatenated in the order of sites. Unknown site names are logged and skipped.
func (m *Manager) ScrapeAll(ctx context.Context, keyword, location string, maxPages int, sites []string) ([]Listing, error) {
	results := make([][]Listing, len(sites))
	g, gctx := errgroup.WithContext(ctx)

	for i, name := range sites {
		name = strings.ToLower(strings.TrimSpace(name))
		src, ok := m.sources[name]
		if !ok {
			m.logger.Warn("no scraper registered for site", zap.String("site", name))
			continue
		}
		g.Go(func() error {
			start := time.Now()
			listings, err := m.scraper.Scrape(gctx, src, keyword, location, maxPages)
			if err != nil {
				return fmt.Errorf("scrape %s: %w", name, err)
			}
			results[i] = listings
			m.logger.Info("site scraped",
				zap.String("site", name),
				zap.Int("listings", len(listings)),
				zap.Duration("took", time.Since(start)),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Listing
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

// CorpusHeader is the column layout of scraped corpora.
var CorpusHeader = []string{"Company", "Role", "Description", "Job Link", "Source"}

// ToTable converts listings into a corpus table the indexer can read.
func ToTable(listings []Listing) *corpus.Table {
	rows := make([][]string, len(listings))
	for i, l := range listings {
		rows[i] = []string{l.Company, l.Title, l.Description, l.Link, l.Source}
	}
	return corpus.NewTable(append([]string(nil), CorpusHeader...), rows)
}

// SaveJSON writes listings as {"total_jobs": N, "jobs": [...]}.
func SaveJSON(path string, listings []Listing) (err error) {
	if listings == nil {
		listings = []Listing{}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(struct {
		TotalJobs int       `json:"total_jobs"`
		Jobs      []Listing `json:"jobs"`
	}{TotalJobs: len(listings), Jobs: listings})
}
