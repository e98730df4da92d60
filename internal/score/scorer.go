package score

import "github.com/vigil-sec/vigil/internal/model"

// Aggregation selects how multiple pattern hits combine into one
// confidence value.
type Aggregation string

const (
	// AggregationMax takes the maximum weight across hits. One strong
	// signal is neither diluted nor amplified by co-occurring weak
	// matches, and confidence cannot be inflated by padding the input
	// with many low-weight phrases. This is the default policy.
	AggregationMax Aggregation = "max"

	// AggregationCappedSum sums hit weights and caps at 1.0. Kept as a
	// configuration variant for aggregation experiments only.
	AggregationCappedSum Aggregation = "capped_sum"
)

// Scorer combines pattern hits into a single confidence value
type Scorer struct {
	aggregation Aggregation
}

// NewScorer creates a scorer with the default max aggregation
func NewScorer() *Scorer {
	return &Scorer{aggregation: AggregationMax}
}

// NewScorerWithAggregation creates a scorer with an explicit policy
func NewScorerWithAggregation(agg Aggregation) *Scorer {
	if agg == "" {
		agg = AggregationMax
	}
	return &Scorer{aggregation: agg}
}

// Score returns the combined confidence in [0,1] and the strongest hit.
// No hits yields confidence 0 and a nil hit.
func (s *Scorer) Score(hits []model.PatternHit) (float64, *model.PatternHit) {
	if len(hits) == 0 {
		return 0, nil
	}

	top := hits[0]
	for _, h := range hits[1:] {
		if h.Weight > top.Weight {
			top = h
		}
	}

	switch s.aggregation {
	case AggregationCappedSum:
		sum := 0.0
		for _, h := range hits {
			sum += h.Weight
		}
		if sum > 1 {
			sum = 1
		}
		return sum, &top
	default:
		return top.Weight, &top
	}
}
