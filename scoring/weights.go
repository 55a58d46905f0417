package scoring

// dimension names, in combination order.
const (
	dimTraffic    = "traffic"
	dimVisibility = "visibility"
	dimAuthority  = "authority"
	dimQuality    = "quality"
)

// dimensionWeight pairs a sub-score with its configured weight and whether
// the metric group backing it was present at all. Absent dimensions are
// excluded from the weighted sum and the remaining weights are renormalized.
type dimensionWeight struct {
	Name      string
	Weight    float64
	Score     float64
	Available bool
}

var baseWeights = map[string]float64{
	dimTraffic:    0.30,
	dimVisibility: 0.25,
	dimAuthority:  0.25,
	dimQuality:    0.20,
}

// renormalize scales the weights of the available dimensions so they sum to 1.
// If no dimension is available it returns the table unchanged and reports false;
// the caller must then skip combination entirely rather than divide by zero.
func renormalize(dims []dimensionWeight) ([]dimensionWeight, bool) {
	total := 0.0
	for _, d := range dims {
		if d.Available {
			total += d.Weight
		}
	}
	if total <= 0 {
		return dims, false
	}

	out := make([]dimensionWeight, len(dims))
	for i, d := range dims {
		out[i] = d
		if d.Available {
			out[i].Weight = d.Weight / total
		} else {
			out[i].Weight = 0
		}
	}
	return out, true
}

// combine computes the weighted sum over available dimensions.
// Weights are assumed to be renormalized already.
func combine(dims []dimensionWeight) float64 {
	score := 0.0
	for _, d := range dims {
		if d.Available {
			score += d.Score * d.Weight
		}
	}
	return score
}
