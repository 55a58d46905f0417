// Package seodata fetches and normalizes third-party SEO metrics for a
// domain. All provider quirks are absorbed at this boundary; callers only
// ever see the canonical record shapes.
package seodata

import "github.com/toolscout/backend/scoring"

// DomainMetrics is the combined result of one provider fan-out. Every group
// is independently optional; a failed or empty lookup leaves it absent.
type DomainMetrics struct {
	RankOverview *scoring.RankOverview    `json:"rankOverview,omitempty"`
	Backlinks    *scoring.BacklinkSummary `json:"backlinks,omitempty"`
	History      []HistoricalPoint        `json:"history,omitempty"`
}

// HistoricalPoint is one month of historical rank data, sorted ascending by
// (year, month) in DomainMetrics.History.
type HistoricalPoint struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	ETV          float64 `json:"etv"`
	KeywordCount int64   `json:"keywordCount"`
}
