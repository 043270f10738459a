package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"ForecastAI/internal/domain/models"
	"ForecastAI/internal/repository"
	"ForecastAI/internal/service/ratelimit"
	"ForecastAI/pkg/cache"
)

type fakeAdvisor struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	result  models.Analysis
	err     error
}

func (f *fakeAdvisor) Provider() string { return "fake" }

func (f *fakeAdvisor) Analyze(ctx context.Context, s models.Series) (models.Analysis, error) {
	f.mu.Lock()
	f.calls++
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return models.Analysis{}, ctx.Err()
		}
	}
	return f.result, f.err
}

func (f *fakeAdvisor) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type nopMetrics struct{}

func (nopMetrics) RecordForecast(int)            {}
func (nopMetrics) RecordAdvisory(string, string) {}
func (nopMetrics) RecordSessionOp(string)        {}
func (nopMetrics) RecordLatency(string, float64) {}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.SessionEvent
}

func (p *recordingPublisher) Publish(ev models.SessionEvent) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func (p *recordingPublisher) Types() []models.SessionEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.SessionEventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func (p *recordingPublisher) Last() models.SessionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

var sampleAnalysis = models.Analysis{
	Forecast:   "steady growth",
	Advice:     []string{"one", "two", "three"},
	Trend:      models.TrendUp,
	Confidence: "Medium",
}

type dashboardFixture struct {
	dash    *Dashboard
	advisor *fakeAdvisor
	events  *recordingPublisher
}

func newDashboard(t *testing.T, advisor *fakeAdvisor, limiter *ratelimit.Limiter) dashboardFixture {
	t.Helper()
	mem := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	t.Cleanup(func() { _ = mem.Close() })

	events := &recordingPublisher{}
	store := repository.NewCacheSessionStore(mem, time.Hour)
	f := NewForecaster(advisor, nopMetrics{}, time.Second)
	d := NewDashboard(store, events, f, limiter, nopMetrics{}, nil)
	return dashboardFixture{dash: d, advisor: advisor, events: events}
}

func drain(t *testing.T, d *Dashboard) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Drain(ctx); err != nil {
		t.Fatalf("drain: %v", err)
	}
}
