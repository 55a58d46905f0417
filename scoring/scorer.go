// Package scoring converts raw SEO metrics into a normalized 0-10 composite
// domain quality score with weighted sub-scores.
package scoring

import (
	"fmt"
	"math"
)

// Scorer computes domain quality scores from provider metrics. It holds no
// state; Score is a pure function safe for concurrent use.
type Scorer struct{}

// New creates a new Scorer instance.
func New() *Scorer {
	return &Scorer{}
}

// Score computes the four sub-scores and the weighted overall score. Either
// input may be nil; the affected sub-scores degrade to 0 with an explanatory
// reason and the remaining weights are renormalized to sum to 1.
func (s *Scorer) Score(rank *RankOverview, backlinks *BacklinkSummary) ScoreBreakdown {
	breakdown := ScoreBreakdown{}

	breakdown.TrafficScore, breakdown.TrafficReason = s.trafficScore(rank)
	breakdown.VisibilityScore, breakdown.VisibilityReason = s.visibilityScore(rank)
	breakdown.AuthorityScore, breakdown.AuthorityReason = s.authorityScore(backlinks)
	breakdown.QualityScore, breakdown.QualityReason = s.qualityScore(backlinks)

	dims := []dimensionWeight{
		{Name: dimTraffic, Weight: baseWeights[dimTraffic], Score: breakdown.TrafficScore, Available: rank != nil},
		{Name: dimVisibility, Weight: baseWeights[dimVisibility], Score: breakdown.VisibilityScore, Available: rank != nil},
		{Name: dimAuthority, Weight: baseWeights[dimAuthority], Score: breakdown.AuthorityScore, Available: backlinks != nil},
		{Name: dimQuality, Weight: baseWeights[dimQuality], Score: breakdown.QualityScore, Available: backlinks != nil},
	}

	normalized, ok := renormalize(dims)
	if !ok {
		// No metric group at all; the overall score degenerates to 0.
		breakdown.OverallScore = 0
		return breakdown
	}

	overall := combine(normalized)
	breakdown.OverallScore = clamp(math.Round(overall*10)/10, 0, 10)
	return breakdown
}

// trafficScore maps estimated monthly traffic value onto a 0-10 scale using
// a fixed logarithmic ladder.
func (s *Scorer) trafficScore(rank *RankOverview) (float64, string) {
	if rank == nil {
		return 0, "no rank overview data available"
	}

	etv := rank.ETV
	var score float64
	switch {
	case etv >= 1_000_000:
		score = 10
	case etv >= 500_000:
		score = 9
	case etv >= 100_000:
		score = 8
	case etv >= 50_000:
		score = 7
	case etv >= 10_000:
		score = 6
	case etv >= 5_000:
		score = 5
	case etv >= 1_000:
		score = 4
	case etv > 0:
		score = 2
	default:
		score = 0
	}

	return score, fmt.Sprintf("estimated monthly traffic value of %.0f", etv)
}

// visibilityScore maps keyword count onto a 0-10 scale, then boosts it when
// a meaningful share of keywords rank in top positions.
func (s *Scorer) visibilityScore(rank *RankOverview) (float64, string) {
	if rank == nil {
		return 0, "no keyword visibility data available"
	}

	total := rank.KeywordCount
	var score float64
	switch {
	case total >= 50_000:
		score = 10
	case total >= 25_000:
		score = 9
	case total >= 10_000:
		score = 8
	case total >= 5_000:
		score = 7
	case total >= 2_500:
		score = 6
	case total >= 1_000:
		score = 5
	case total >= 500:
		score = 4
	case total >= 100:
		score = 3
	case total > 0:
		score = 1
	default:
		score = 0
	}

	top3 := rank.PositionBuckets[BucketTop3]
	top10 := rank.PositionBuckets[BucketTop10]
	if total > 0 {
		top3Share := float64(top3) / float64(total)
		top10Share := float64(top10) / float64(total)
		switch {
		case top3Share >= 0.05:
			score += 2
		case top3Share >= 0.02:
			score += 1
		case top10Share >= 0.10:
			score += 0.5
		}
	}

	score = clamp(score, 0, 10)
	return score, fmt.Sprintf("%d ranked keywords, %d in top 3 positions", total, top3)
}

// authorityScore converts the provider's 0-100 domain rank to a 0-10 scale
// and boosts it by referring-domain count.
func (s *Scorer) authorityScore(backlinks *BacklinkSummary) (float64, string) {
	if backlinks == nil {
		return 0, "no backlink data available"
	}

	score := backlinks.DomainRank / 10
	score += referringDomainBoost(backlinks.ReferringDomains)
	score = clamp(score, 0, 10)

	return score, fmt.Sprintf("domain rank %.0f/100 with %d referring domains",
		backlinks.DomainRank, backlinks.ReferringDomains)
}

// qualityScore maps total backlink count onto a 0-10 scale and applies the
// same referring-domain boost as the authority dimension.
func (s *Scorer) qualityScore(backlinks *BacklinkSummary) (float64, string) {
	if backlinks == nil {
		return 0, "no backlink data available"
	}

	count := backlinks.BacklinkCount
	var score float64
	switch {
	case count >= 500_000:
		score = 10
	case count >= 250_000:
		score = 9
	case count >= 100_000:
		score = 8
	case count >= 50_000:
		score = 7
	case count >= 10_000:
		score = 6
	case count >= 5_000:
		score = 5
	case count >= 1_000:
		score = 4
	case count >= 100:
		score = 3
	case count < 100:
		score = 2
	default:
		score = 5
	}

	score += referringDomainBoost(backlinks.ReferringDomains)
	score = clamp(score, 0, 10)

	return score, fmt.Sprintf("%d backlinks from %d referring domains",
		count, backlinks.ReferringDomains)
}

// referringDomainBoost rewards link diversity on top of the raw counts.
func referringDomainBoost(referringDomains int64) float64 {
	switch {
	case referringDomains >= 10_000:
		return 1
	case referringDomains >= 5_000:
		return 0.5
	case referringDomains >= 1_000:
		return 0.25
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
