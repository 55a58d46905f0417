package scoring

// RankOverview is a traffic/keyword visibility snapshot for one domain,
// normalized from the SEO data provider by the seodata package.
type RankOverview struct {
	ETV             float64          `json:"etv"`
	KeywordCount    int64            `json:"keywordCount"`
	PositionBuckets map[string]int64 `json:"positionBuckets"`
}

// Position bucket labels used in RankOverview.PositionBuckets.
const (
	BucketTop3  = "top3"
	BucketTop10 = "top10"
)

// BacklinkSummary is a link-authority snapshot for one domain.
type BacklinkSummary struct {
	DomainRank       float64 `json:"domainRank"`
	BacklinkCount    int64   `json:"backlinkCount"`
	ReferringDomains int64   `json:"referringDomains"`
}

// ScoreBreakdown holds the four sub-scores, the weighted overall score,
// and one human-readable reason string per sub-score for audit display.
type ScoreBreakdown struct {
	TrafficScore    float64 `json:"trafficScore"`
	VisibilityScore float64 `json:"visibilityScore"`
	AuthorityScore  float64 `json:"authorityScore"`
	QualityScore    float64 `json:"qualityScore"`
	OverallScore    float64 `json:"overallScore"`

	TrafficReason    string `json:"trafficReason"`
	VisibilityReason string `json:"visibilityReason"`
	AuthorityReason  string `json:"authorityReason"`
	QualityReason    string `json:"qualityReason"`
}
