package eval

import "math"

// CalculatePrecisionRecallF1 computes the standard classification
// metrics on a percentage scale, rounded to two decimals. Undefined
// cases (zero denominators) yield 0.0 by convention rather than NaN.
func CalculatePrecisionRecallF1(tp, fp, fn int) (precision, recall, f1 float64) {
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp) * 100
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn) * 100
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return round2(precision), round2(recall), round2(f1)
}

// DetectionRatePercent is detected/total on a percentage scale
func DetectionRatePercent(detected, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(detected) / float64(total) * 100)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
