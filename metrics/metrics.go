// Package metrics bundles Prometheus collectors for the backend.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all collectors on a dedicated registry.
type Metrics struct {
	Registry                *prometheus.Registry
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderErrorsTotal     *prometheus.CounterVec
	ProviderRequestDuration prometheus.Histogram
	AuditsTotal             prometheus.Counter
	AuditCacheHitsTotal     prometheus.Counter
	ExtractionsTotal        prometheus.Counter
	ExtractedTiersTotal     prometheus.Counter
	PanicsRecoveredTotal    prometheus.Counter
}

// New constructs and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	providerRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seodata_provider_requests_total",
			Help: "Total requests issued to the SEO data provider by endpoint.",
		},
		[]string{"endpoint"},
	)
	providerErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seodata_provider_errors_total",
			Help: "Total provider call failures by endpoint and error type.",
		},
		[]string{"endpoint", "error_type"},
	)
	providerDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seodata_provider_request_duration_seconds",
			Help:    "Latency of SEO data provider calls.",
			Buckets: prometheus.DefBuckets,
		},
	)
	audits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audits_total",
			Help: "Total domain audits served.",
		},
	)
	auditCacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_cache_hits_total",
			Help: "Total domain audits served from the cache.",
		},
	)
	extractions := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_extractions_total",
			Help: "Total pricing extraction requests served.",
		},
	)
	extractedTiers := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_extracted_tiers_total",
			Help: "Total pricing tiers returned to callers.",
		},
	)
	panicsRecovered := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "panics_recovered_total",
			Help: "Total handler panics recovered by the error middleware.",
		},
	)

	registry.MustRegister(providerRequests, providerErrors, providerDuration,
		audits, auditCacheHits, extractions, extractedTiers, panicsRecovered)

	return &Metrics{
		Registry:                registry,
		ProviderRequestsTotal:   providerRequests,
		ProviderErrorsTotal:     providerErrors,
		ProviderRequestDuration: providerDuration,
		AuditsTotal:             audits,
		AuditCacheHitsTotal:     auditCacheHits,
		ExtractionsTotal:        extractions,
		ExtractedTiersTotal:     extractedTiers,
		PanicsRecoveredTotal:    panicsRecovered,
	}
}

// IncProviderRequest increments the provider request counter.
func (m *Metrics) IncProviderRequest(endpoint string) {
	if m == nil {
		return
	}
	m.ProviderRequestsTotal.WithLabelValues(endpoint).Inc()
}

// IncProviderError increments the provider error counter.
func (m *Metrics) IncProviderError(endpoint, errorType string) {
	if m == nil {
		return
	}
	m.ProviderErrorsTotal.WithLabelValues(endpoint, errorType).Inc()
}

// ObserveProviderDuration records one provider call latency.
func (m *Metrics) ObserveProviderDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequestDuration.Observe(d.Seconds())
}

// IncAudit increments the audit counter.
func (m *Metrics) IncAudit() {
	if m == nil {
		return
	}
	m.AuditsTotal.Inc()
}

// IncAuditCacheHit increments the audit cache hit counter.
func (m *Metrics) IncAuditCacheHit() {
	if m == nil {
		return
	}
	m.AuditCacheHitsTotal.Inc()
}

// IncPanicRecovered increments the recovered-panic counter.
func (m *Metrics) IncPanicRecovered() {
	if m == nil {
		return
	}
	m.PanicsRecoveredTotal.Inc()
}

// IncExtraction records one extraction request and the tiers it produced.
func (m *Metrics) IncExtraction(tiers int) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.Inc()
	m.ExtractedTiersTotal.Add(float64(tiers))
}
