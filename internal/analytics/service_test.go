package analytics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/giomambre/cv-job-matching/model"
	"github.com/giomambre/cv-job-matching/services"
)

// mockMatcher is a simple mock for testing
type mockMatcher struct {
	version   string
	documents int
}

func (m *mockMatcher) Version() string { return m.version }
func (m *mockMatcher) Match(_ string, _ int) ([]model.MatchResult, error) {
	return nil, nil
}
func (m *mockMatcher) Stats(_ int) services.ModelStats {
	return services.ModelStats{Version: m.version, Documents: m.documents}
}
func (m *mockMatcher) Document(_ int, _ int) (*services.DocumentDetail, error) {
	return nil, nil
}

type staticProvider struct{ m services.Matcher }

func (p staticProvider) Current() services.Matcher { return p.m }

func newTestService(now time.Time) *Service {
	s := NewService(staticProvider{&mockMatcher{version: "v1", documents: 120}}, Options{})
	s.now = func() time.Time { return now }
	return s
}

func TestService_Track(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	service := newTestService(now)

	service.Track(model.MatchEvent{
		Version:      "v1",
		Source:       model.MatchSourceText,
		K:            5,
		ResultCount:  5,
		TopRole:      "Data Scientist",
		TopScore:     0.42,
		ResponseTime: 12 * time.Millisecond,
	})

	if service.Len() != 1 {
		t.Fatalf("Expected 1 event, got %d", service.Len())
	}
	if !service.events[0].Timestamp.Equal(now) {
		t.Errorf("Expected timestamp to default to now, got %v", service.events[0].Timestamp)
	}
}

func TestService_Dashboard(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	service := newTestService(now)

	track := func(ago time.Duration, source, role string, score float64, took time.Duration) {
		service.Track(model.MatchEvent{
			Source:       source,
			K:            5,
			ResultCount:  5,
			TopRole:      role,
			TopScore:     score,
			ResponseTime: took,
			Timestamp:    now.Add(-ago),
		})
	}

	track(10*time.Minute, model.MatchSourceText, "Data Scientist", 0.6, 10*time.Millisecond)
	track(20*time.Minute, model.MatchSourceUpload, "Data Scientist", 0.5, 30*time.Millisecond)
	track(3*time.Hour, model.MatchSourceText, "Project Manager", 0.2, 80*time.Millisecond)
	track(5*time.Hour, model.MatchSourceText, "Anything", 0, 200*time.Millisecond)
	// Outside the 24h window but inside the week
	track(30*time.Hour, model.MatchSourceText, "Project Manager", 0.3, 10*time.Millisecond)

	d := service.Dashboard()

	if d.TotalMatches != 4 {
		t.Errorf("Expected 4 matches in the last 24h, got %d", d.TotalMatches)
	}
	if d.MatchesChangePercent != 300 {
		t.Errorf("Expected +300%% change, got %v", d.MatchesChangePercent)
	}
	if d.AvgResponseTime != 80 {
		t.Errorf("Expected average of 80ms, got %d", d.AvgResponseTime)
	}
	if d.NoOverlapMatches != 1 {
		t.Errorf("Expected 1 match without overlap, got %d", d.NoOverlapMatches)
	}
	if d.MatchSources.Text != 3 || d.MatchSources.Upload != 1 {
		t.Errorf("Unexpected sources: %+v", d.MatchSources)
	}
	if d.ModelVersion != "v1" || d.TotalDocuments != 120 {
		t.Errorf("Unexpected model info: %s/%d", d.ModelVersion, d.TotalDocuments)
	}
	if len(d.MatchPerformance24h) != 24 || d.MatchPerformance24h[14].MatchCount != 2 {
		t.Errorf("Unexpected hourly performance: %+v", d.MatchPerformance24h)
	}

	dist := d.ResponseTimeDistribution
	if dist.Bucket0To25ms != 1 || dist.Bucket25To50ms != 1 || dist.Bucket50To100ms != 1 || dist.Bucket100msPlus != 1 {
		t.Errorf("Unexpected distribution: %+v", dist)
	}

	// Zero-score matches do not count towards popular roles
	if len(d.PopularRoles) != 2 {
		t.Fatalf("Expected 2 popular roles, got %+v", d.PopularRoles)
	}
	if d.PopularRoles[0].Role != "Data Scientist" && d.PopularRoles[0].Role != "Project Manager" {
		t.Errorf("Unexpected top role %s", d.PopularRoles[0].Role)
	}
	for _, r := range d.PopularRoles {
		if r.MatchCount != 2 {
			t.Errorf("Expected 2 matches for %s, got %d", r.Role, r.MatchCount)
		}
	}
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		current, previous int
		want              float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{15, 10, 50},
		{5, 10, -50},
	}
	for _, tt := range tests {
		if got := changePercent(tt.current, tt.previous); got != tt.want {
			t.Errorf("changePercent(%d, %d) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestService_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics", "events.json")

	service := NewService(nil, Options{DataFile: path})
	service.Track(model.MatchEvent{Source: model.MatchSourceUpload, TopRole: "Cybersecurity Analyst", TopScore: 0.3})
	if err := service.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := NewService(nil, Options{DataFile: path})
	if reloaded.Len() != 1 {
		t.Fatalf("Expected 1 event after reload, got %d", reloaded.Len())
	}
	if reloaded.events[0].TopRole != "Cybersecurity Analyst" {
		t.Errorf("Unexpected reloaded event: %+v", reloaded.events[0])
	}

	// Without a data file nothing is written
	if err := NewService(nil, Options{}).Save(); err != nil {
		t.Errorf("Expected no error without a data file, got %v", err)
	}
}
