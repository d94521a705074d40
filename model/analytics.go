package model

import "time"

// MatchEvent represents a single match request for analytics tracking.
// Résumé text is never recorded.
type MatchEvent struct {
	Version      string        `json:"version"`
	Source       string        `json:"source"` // "text" or "upload"
	K            int           `json:"k"`
	ResultCount  int           `json:"result_count"`
	TopRole      string        `json:"top_role,omitempty"`
	TopScore     float64       `json:"top_score"`
	ResponseTime time.Duration `json:"response_time"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Match event sources
const (
	MatchSourceText   = "text"
	MatchSourceUpload = "upload"
)

// PopularRole represents how often a role came out on top
type PopularRole struct {
	Role        string `json:"role"`
	MatchCount  int    `json:"match_count"`
	TrendChange string `json:"trend_change,omitempty"` // "up", "down", "stable"
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms     int     `json:"bucket_0_25ms"`
	Bucket25To50ms    int     `json:"bucket_25_50ms"`
	Bucket50To100ms   int     `json:"bucket_50_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To25   float64 `json:"percentage_0_25"`
	Percentage25To50  float64 `json:"percentage_25_50"`
	Percentage50To100 float64 `json:"percentage_50_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// MatchSourceStats counts matches by how the résumé arrived
type MatchSourceStats struct {
	Text   int `json:"text"`
	Upload int `json:"upload"`
}

// MatchPerformanceHourly represents hourly match performance data
type MatchPerformanceHourly struct {
	Hour            int   `json:"hour"`
	MatchCount      int   `json:"match_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// SystemHealth represents process health metrics
type SystemHealth struct {
	MemoryUsage float64 `json:"memory_usage_percent"`
	HeapAllocMB float64 `json:"heap_alloc_mb"`
	Goroutines  int     `json:"goroutines"`
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	// Summary metrics
	TotalMatches         int     `json:"total_matches"`
	MatchesChangePercent float64 `json:"matches_change_percent"`
	AvgResponseTime      int64   `json:"avg_response_time"` // in milliseconds
	ResponseTimeChange   string  `json:"response_time_change"`
	NoOverlapMatches     int     `json:"no_overlap_matches"` // résumés sharing no term with the corpus
	ModelVersion         string  `json:"model_version"`
	TotalDocuments       int     `json:"total_documents"`

	// Detailed analytics
	MatchPerformance24h      []MatchPerformanceHourly `json:"match_performance_24h"`
	PopularRoles             []PopularRole            `json:"popular_roles"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	MatchSources             MatchSourceStats         `json:"match_sources"`
	SystemHealth             SystemHealth             `json:"system_health"`
}
