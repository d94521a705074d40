// Package analytics keeps a rolling window of match requests and summarizes it.
package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/giomambre/cv-job-matching/internal/logger"
	"github.com/giomambre/cv-job-matching/model"
	"github.com/giomambre/cv-job-matching/services"
)

const maxEventsToKeep = 10000 // Keep last 10k events for performance

// Options configure the analytics service.
type Options struct {
	// DataFile persists events across restarts when set.
	DataFile string
	Logger   *zap.Logger
}

// Service implements analytics tracking and reporting
type Service struct {
	mutex    sync.RWMutex
	events   []model.MatchEvent
	matchers services.MatcherProvider
	dataFile string
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new analytics service, loading saved events if any.
func NewService(matchers services.MatcherProvider, opts Options) *Service {
	service := &Service{
		events:   make([]model.MatchEvent, 0),
		matchers: matchers,
		dataFile: opts.DataFile,
		logger:   logger.OrNop(opts.Logger),
		now:      time.Now,
	}

	if err := service.load(); err != nil {
		service.logger.Warn("failed to load analytics data", zap.Error(err))
	}

	return service
}

// Track records a new match event
func (s *Service) Track(event model.MatchEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
}

// Len returns the number of retained events.
func (s *Service) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.events)
}

// Dashboard returns complete analytics dashboard data
func (s *Service) Dashboard() model.AnalyticsDashboard {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	last24h := filterByTime(s.events, yesterday, now)
	prev24h := filterByTime(s.events, yesterday.Add(-24*time.Hour), yesterday)
	lastWeekEvents := filterByTime(s.events, lastWeek, now)
	prevWeekEvents := filterByTime(s.events, lastWeek.Add(-7*24*time.Hour), lastWeek)

	dashboard := model.AnalyticsDashboard{
		TotalMatches:             len(last24h),
		MatchesChangePercent:     changePercent(len(last24h), len(prev24h)),
		AvgResponseTime:          avgResponseTime(last24h),
		ResponseTimeChange:       trend(avgResponseTime(last24h), avgResponseTime(prev24h)),
		NoOverlapMatches:         countNoOverlap(last24h),
		MatchPerformance24h:      hourlyPerformance(last24h),
		PopularRoles:             popularRoles(lastWeekEvents, prevWeekEvents),
		ResponseTimeDistribution: responseTimeDistribution(last24h),
		MatchSources:             sourceStats(last24h),
		SystemHealth:             systemHealth(),
	}

	if s.matchers != nil {
		if m := s.matchers.Current(); m != nil {
			stats := m.Stats(0)
			dashboard.ModelVersion = stats.Version
			dashboard.TotalDocuments = stats.Documents
		}
	}

	return dashboard
}

// filterByTime returns events in (start, end]
func filterByTime(events []model.MatchEvent, start, end time.Time) []model.MatchEvent {
	var filtered []model.MatchEvent
	for _, event := range events {
		if event.Timestamp.After(start) && !event.Timestamp.After(end) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// changePercent calculates percentage change between current and previous values
func changePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100.0
		}
		return 0.0
	}
	return float64(current-previous) / float64(previous) * 100.0
}

// avgResponseTime calculates average response time for events in milliseconds
func avgResponseTime(events []model.MatchEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// trend classifies the change between two values, with a 10% dead band
func trend(current, previous int64) string {
	if previous == 0 {
		return "stable"
	}

	change := float64(current-previous) / float64(previous)
	if change > 0.1 {
		return "up"
	} else if change < -0.1 {
		return "down"
	}
	return "stable"
}

func countNoOverlap(events []model.MatchEvent) int {
	n := 0
	for _, event := range events {
		if event.ResultCount > 0 && event.TopScore == 0 {
			n++
		}
	}
	return n
}

// hourlyPerformance returns match performance per hour of day
func hourlyPerformance(events []model.MatchEvent) []model.MatchPerformanceHourly {
	hourlyData := make(map[int][]model.MatchEvent)
	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	performance := make([]model.MatchPerformanceHourly, 0, 24)
	for hour := 0; hour < 24; hour++ {
		performance = append(performance, model.MatchPerformanceHourly{
			Hour:            hour,
			MatchCount:      len(hourlyData[hour]),
			AvgResponseTime: avgResponseTime(hourlyData[hour]),
		})
	}
	return performance
}

// popularRoles returns the five roles that most often ranked first
func popularRoles(current, previous []model.MatchEvent) []model.PopularRole {
	counts := countRoles(current)
	before := countRoles(previous)

	roles := make([]string, 0, len(counts))
	for role := range counts {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool {
		if counts[roles[i]] != counts[roles[j]] {
			return counts[roles[i]] > counts[roles[j]]
		}
		return roles[i] < roles[j]
	})

	popular := make([]model.PopularRole, 0, 5)
	for i, role := range roles {
		if i >= 5 {
			break
		}
		popular = append(popular, model.PopularRole{
			Role:        role,
			MatchCount:  counts[role],
			TrendChange: trend(int64(counts[role]), int64(before[role])),
		})
	}
	return popular
}

func countRoles(events []model.MatchEvent) map[string]int {
	counts := make(map[string]int)
	for _, event := range events {
		if event.TopRole != "" && event.TopScore > 0 {
			counts[event.TopRole]++
		}
	}
	return counts
}

// responseTimeDistribution returns response time distribution
func responseTimeDistribution(events []model.MatchEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)
	if total == 0 {
		return dist
	}

	for _, event := range events {
		ms := event.ResponseTime.Milliseconds()
		switch {
		case ms <= 25:
			dist.Bucket0To25ms++
		case ms <= 50:
			dist.Bucket25To50ms++
		case ms <= 100:
			dist.Bucket50To100ms++
		default:
			dist.Bucket100msPlus++
		}
	}

	dist.Percentage0To25 = float64(dist.Bucket0To25ms) / float64(total) * 100
	dist.Percentage25To50 = float64(dist.Bucket25To50ms) / float64(total) * 100
	dist.Percentage50To100 = float64(dist.Bucket50To100ms) / float64(total) * 100
	dist.Percentage100Plus = float64(dist.Bucket100msPlus) / float64(total) * 100
	return dist
}

func sourceStats(events []model.MatchEvent) model.MatchSourceStats {
	stats := model.MatchSourceStats{}
	for _, event := range events {
		switch event.Source {
		case model.MatchSourceText:
			stats.Text++
		case model.MatchSourceUpload:
			stats.Upload++
		}
	}
	return stats
}

// systemHealth returns current process health metrics
func systemHealth() model.SystemHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := 0.0
	if m.Sys > 0 {
		usage = float64(m.Alloc) / float64(m.Sys) * 100
	}
	return model.SystemHealth{
		MemoryUsage: usage,
		HeapAllocMB: float64(m.HeapAlloc) / (1 << 20),
		Goroutines:  runtime.NumGoroutine(),
	}
}

// load reads saved events from the data file
func (s *Service) load() error {
	if s.dataFile == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(s.dataFile))
	if os.IsNotExist(err) {
		return nil // File doesn't exist yet, that's okay
	}
	if err != nil {
		return fmt.Errorf("failed to read analytics file: %w", err)
	}

	var events []model.MatchEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}
	if len(events) > maxEventsToKeep {
		events = events[len(events)-maxEventsToKeep:]
	}
	s.events = events
	return nil
}

// Save writes retained events to the data file. It is a no-op without one.
func (s *Service) Save() error {
	if s.dataFile == "" {
		return nil
	}

	s.mutex.RLock()
	data, err := json.MarshalIndent(s.events, "", "  ")
	s.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal analytics data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.dataFile), 0750); err != nil {
		return fmt.Errorf("failed to create analytics directory: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(s.dataFile), data, 0600); err != nil {
		return fmt.Errorf("failed to write analytics file: %w", err)
	}
	return nil
}
