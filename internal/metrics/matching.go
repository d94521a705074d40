package metrics

import "github.com/prometheus/client_golang/prometheus"

// Matching and corpus metrics.
var (
	MatchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_requests_total",
			Help:      "Total number of résumé match requests",
		},
		[]string{"status"}, // "ok" / "invalid" / "error"
	)

	MatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Time spent vectorizing and ranking one résumé",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	CorpusDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_documents",
			Help:      "Number of job ads in the loaded corpus",
		},
	)

	VocabularyTerms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vocabulary_terms",
			Help:      "Number of terms in the loaded weighting model",
		},
	)
)

// Scraper metrics.
var (
	ScrapedListingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scraper_listings_total",
			Help:      "Job listings parsed per source",
		},
		[]string{"source"},
	)

	ScrapeFetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scraper_fetch_errors_total",
			Help:      "Listing pages that could not be fetched after retries",
		},
		[]string{"source"},
	)
)

// Background task metrics.
var (
	TasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Background tasks by type and final status",
		},
		[]string{"type", "status"},
	)

	TaskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Execution time of background tasks",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"type"},
	)

	TasksRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_running",
			Help:      "Background tasks currently holding a worker slot",
		},
	)
)

func init() {
	prometheus.MustRegister(MatchRequestsTotal)
	prometheus.MustRegister(MatchDuration)
	prometheus.MustRegister(CorpusDocuments)
	prometheus.MustRegister(VocabularyTerms)
	prometheus.MustRegister(ScrapedListingsTotal)
	prometheus.MustRegister(ScrapeFetchErrorsTotal)
	prometheus.MustRegister(TasksTotal)
	prometheus.MustRegister(TaskDuration)
	prometheus.MustRegister(TasksRunning)
}
