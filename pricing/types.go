// Package pricing extracts discrete pricing tiers from free-form
// capabilities text using a best-effort heading/label heuristic.
package pricing

// Tier represents one extracted pricing plan.
type Tier struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	ValueRating string   `json:"valueRating,omitempty"`
}

// Qualitative value-rating vocabulary.
const (
	RatingExcellent = "Excellent"
	RatingVeryGood  = "Very Good"
	RatingGood      = "Good"
	RatingFair      = "Fair"
	RatingPoor      = "Poor"
)

const (
	// PriceFree marks a zero-cost tier.
	PriceFree = "Free"
	// PriceCustom is the default when no price token can be parsed.
	PriceCustom = "Custom"

	maxTiers    = 4
	maxFeatures = 6
)
