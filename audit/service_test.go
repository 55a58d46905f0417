package audit

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/toolscout/backend/metrics"
	"github.com/toolscout/backend/onpage"
	"github.com/toolscout/backend/scoring"
	"github.com/toolscout/backend/seodata"
)

type stubFetcher struct {
	calls  atomic.Int64
	result seodata.DomainMetrics
}

func (f *stubFetcher) FetchAll(_ context.Context, _ string) seodata.DomainMetrics {
	f.calls.Add(1)
	return f.result
}

type stubProber struct {
	snapshot *onpage.Snapshot
	err      error
}

func (p *stubProber) Probe(_ context.Context, _ string) (*onpage.Snapshot, error) {
	return p.snapshot, p.err
}

func TestAuditScoresProviderMetrics(t *testing.T) {
	fetcher := &stubFetcher{result: seodata.DomainMetrics{
		RankOverview: &scoring.RankOverview{ETV: 2_000_000, KeywordCount: 80_000},
		Backlinks:    &scoring.BacklinkSummary{DomainRank: 90, BacklinkCount: 700_000, ReferringDomains: 20_000},
	}}
	svc := NewService(fetcher, nil, nil, metrics.New(), Options{})

	result, err := svc.Audit(context.Background(), "https://www.example.com")
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}

	if result.Domain != "example.com" {
		t.Errorf("domain = %q, want example.com", result.Domain)
	}
	if result.Scores.TrafficScore != 10 {
		t.Errorf("traffic score = %v, want 10", result.Scores.TrafficScore)
	}
	if result.Scores.OverallScore <= 0 {
		t.Errorf("overall score = %v, want > 0", result.Scores.OverallScore)
	}
	if result.GeneratedAt.IsZero() {
		t.Error("generatedAt not set")
	}
}

func TestAuditCachesByDomain(t *testing.T) {
	fetcher := &stubFetcher{}
	svc := NewService(fetcher, nil, nil, metrics.New(), Options{CacheSize: 10, CacheTTL: time.Minute})

	first, err := svc.Audit(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("first Audit: %v", err)
	}
	// Same domain behind a URL form must hit the same cache entry.
	second, err := svc.Audit(context.Background(), "https://www.example.com/pricing")
	if err != nil {
		t.Fatalf("second Audit: %v", err)
	}

	if got := fetcher.calls.Load(); got != 1 {
		t.Errorf("fetcher called %d times, want 1", got)
	}
	if first != second {
		t.Error("second audit should be served from the cache")
	}
	if !svc.IsCached("example.com") {
		t.Error("domain should be cached")
	}

	svc.PurgeCache()
	if svc.IsCached("example.com") {
		t.Error("cache should be empty after purge")
	}
}

func TestAuditInvalidDomain(t *testing.T) {
	svc := NewService(&stubFetcher{}, nil, nil, metrics.New(), Options{})
	if _, err := svc.Audit(context.Background(), "   "); !errors.Is(err, ErrInvalidDomain) {
		t.Errorf("err = %v, want ErrInvalidDomain", err)
	}
}

func TestAuditSurvivesTotalProviderFailure(t *testing.T) {
	// Fetcher returns nothing at all; the audit must still complete with a
	// zero composite score.
	svc := NewService(&stubFetcher{}, &stubProber{err: errors.New("down")}, nil, metrics.New(), Options{})

	result, err := svc.Audit(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if result.Scores.OverallScore != 0 {
		t.Errorf("overall score = %v, want 0", result.Scores.OverallScore)
	}
	if result.Page != nil {
		t.Error("page snapshot should be absent when the probe fails")
	}
}

func TestAuditAttachesPageSnapshot(t *testing.T) {
	prober := &stubProber{snapshot: &onpage.Snapshot{Title: "Example", H1Count: 1}}
	svc := NewService(&stubFetcher{}, prober, nil, metrics.New(), Options{})

	result, err := svc.Audit(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if result.Page == nil || result.Page.Title != "Example" {
		t.Errorf("page snapshot = %+v", result.Page)
	}
}
