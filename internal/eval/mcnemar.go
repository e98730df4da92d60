package eval

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/vigil-sec/vigil/internal/model"
)

// DefaultAlpha is the significance threshold for McNemar's test
const DefaultAlpha = 0.05

// McNemar runs the paired significance test from discordant pair
// counts: b samples detected only by the baseline, c only by the
// candidate. The statistic uses the continuity correction
// (|b-c|-1)^2/(b+c); the p-value comes from the chi-square distribution
// with one degree of freedom. When b+c is zero the configurations are
// identical on this corpus and the test reports no significant
// difference outright, avoiding the zero division.
func McNemar(b, c int, alpha float64) model.McNemarResult {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}

	res := model.McNemarResult{
		OnlyBaseline:  b,
		OnlyCandidate: c,
	}

	if b+c == 0 {
		res.Statistic = 0.0
		res.PValue = 1.0
		res.Significant = false
		return res
	}

	diff := math.Abs(float64(b-c)) - 1
	if diff < 0 {
		diff = 0
	}
	res.Statistic = diff * diff / float64(b+c)

	chi2 := distuv.ChiSquared{K: 1}
	res.PValue = chi2.Survival(res.Statistic)
	res.Significant = res.PValue < alpha

	return res
}

// McNemarFromOutcomes derives the discordant counts from two paired
// detection vectors over the same corpus.
func McNemarFromOutcomes(baseline, candidate []bool, alpha float64) (model.McNemarResult, error) {
	if len(baseline) != len(candidate) {
		return model.McNemarResult{}, fmt.Errorf(
			"outcome vectors differ in length (%d vs %d); McNemar requires the same samples", len(baseline), len(candidate))
	}

	b, c := 0, 0
	for i := range baseline {
		switch {
		case baseline[i] && !candidate[i]:
			b++
		case !baseline[i] && candidate[i]:
			c++
		}
	}

	return McNemar(b, c, alpha), nil
}

// McNemarFromCounts approximates the test from aggregate detection
// counts alone, assuming nested detection sets (everything the weaker
// configuration detects, the stronger one also detects). This is the
// conservative reading when per-sample vectors are unavailable.
func McNemarFromCounts(baselineDetected, candidateDetected, total int, alpha float64) (model.McNemarResult, error) {
	if baselineDetected > total || candidateDetected > total || baselineDetected < 0 || candidateDetected < 0 {
		return model.McNemarResult{}, fmt.Errorf(
			"detection counts (%d, %d) inconsistent with total %d", baselineDetected, candidateDetected, total)
	}

	b, c := 0, 0
	if baselineDetected > candidateDetected {
		b = baselineDetected - candidateDetected
	} else {
		c = candidateDetected - baselineDetected
	}

	return McNemar(b, c, alpha), nil
}
