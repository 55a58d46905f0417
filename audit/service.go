// Package audit orchestrates the domain audit pipeline: provider metrics
// fan-out, quality scoring, and the optional on-page probe, behind a
// TTL-bounded LRU cache.
package audit

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/toolscout/backend/metrics"
	"github.com/toolscout/backend/onpage"
	"github.com/toolscout/backend/scoring"
	"github.com/toolscout/backend/seodata"
	"github.com/toolscout/backend/stats"
)

// ErrInvalidDomain is returned when the input cannot be reduced to a hostname.
var ErrInvalidDomain = errors.New("audit: invalid domain")

// MetricsFetcher resolves provider metrics for a domain.
type MetricsFetcher interface {
	FetchAll(ctx context.Context, domainOrURL string) seodata.DomainMetrics
}

// PageProber fetches on-page signals for a domain.
type PageProber interface {
	Probe(ctx context.Context, domain string) (*onpage.Snapshot, error)
}

// DomainAudit is one finished audit, served to rendering code as plain data.
type DomainAudit struct {
	Domain      string                 `json:"domain"`
	Metrics     seodata.DomainMetrics  `json:"metrics"`
	Scores      scoring.ScoreBreakdown `json:"scores"`
	Page        *onpage.Snapshot       `json:"page,omitempty"`
	GeneratedAt time.Time              `json:"generatedAt"`
}

// Options configures the audit cache.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// Service runs domain audits. Safe for concurrent use.
type Service struct {
	fetcher   MetricsFetcher
	prober    PageProber // nil disables the on-page probe
	scorer    *scoring.Scorer
	cache     *expirable.LRU[string, *DomainAudit]
	storage   *stats.Storage
	collected *metrics.Metrics
}

// NewService creates an audit service. The prober, storage, and metrics
// handles may be nil.
func NewService(fetcher MetricsFetcher, prober PageProber, storage *stats.Storage, m *metrics.Metrics, opts Options) *Service {
	size := opts.CacheSize
	if size <= 0 {
		size = 1000
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &Service{
		fetcher:   fetcher,
		prober:    prober,
		scorer:    scoring.New(),
		cache:     expirable.NewLRU[string, *DomainAudit](size, nil, ttl),
		storage:   storage,
		collected: m,
	}
}

// Audit resolves a full domain audit, serving repeated requests for the same
// domain from the cache until the TTL lapses.
func (s *Service) Audit(ctx context.Context, domainOrURL string) (*DomainAudit, error) {
	domain := seodata.NormalizeHost(domainOrURL)
	if domain == "" {
		return nil, ErrInvalidDomain
	}

	s.collected.IncAudit()

	if cached, ok := s.cache.Get(domain); ok {
		s.collected.IncAuditCacheHit()
		if s.storage != nil {
			s.storage.RecordAudit(true)
		}
		return cached, nil
	}
	if s.storage != nil {
		s.storage.RecordAudit(false)
	}

	// Probe the homepage concurrently with the provider fan-out; the probe
	// is enrichment only and its failure never fails the audit.
	var (
		page    *onpage.Snapshot
		probeWG sync.WaitGroup
	)
	if s.prober != nil {
		probeWG.Add(1)
		go func() {
			defer probeWG.Done()
			snapshot, err := s.prober.Probe(ctx, domain)
			if err != nil {
				log.Printf("audit: on-page probe for %s failed: %v", domain, err)
				return
			}
			page = snapshot
		}()
	}

	domainMetrics := s.fetcher.FetchAll(ctx, domain)
	probeWG.Wait()

	if domainMetrics.RankOverview == nil && domainMetrics.Backlinks == nil && domainMetrics.History == nil {
		if s.storage != nil {
			s.storage.RecordProviderFailure()
		}
	}

	result := &DomainAudit{
		Domain:      domain,
		Metrics:     domainMetrics,
		Scores:      s.scorer.Score(domainMetrics.RankOverview, domainMetrics.Backlinks),
		Page:        page,
		GeneratedAt: time.Now().UTC(),
	}
	s.cache.Add(domain, result)

	return result, nil
}

// IsCached reports whether a fresh audit for the domain is in the cache.
func (s *Service) IsCached(domainOrURL string) bool {
	return s.cache.Contains(seodata.NormalizeHost(domainOrURL))
}

// PurgeCache drops all cached audits.
func (s *Service) PurgeCache() {
	s.cache.Purge()
}
