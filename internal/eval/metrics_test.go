package eval

import "testing"

func TestCalculatePrecisionRecallF1(t *testing.T) {
	cases := []struct {
		name          string
		tp, fp, fn    int
		wantPrecision float64
		wantRecall    float64
		wantF1        float64
	}{
		{"perfect precision", 100, 0, 50, 100.0, 66.67, 80.0},
		{"perfect recall", 50, 50, 0, 50.0, 100.0, 66.67},
		{"all zero", 0, 0, 0, 0.0, 0.0, 0.0},
		{"no true positives", 0, 10, 10, 0.0, 0.0, 0.0},
		{"balanced", 80, 20, 20, 80.0, 80.0, 80.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			precision, recall, f1 := CalculatePrecisionRecallF1(tc.tp, tc.fp, tc.fn)
			if precision != tc.wantPrecision {
				t.Errorf("precision = %.2f, want %.2f", precision, tc.wantPrecision)
			}
			if recall != tc.wantRecall {
				t.Errorf("recall = %.2f, want %.2f", recall, tc.wantRecall)
			}
			if f1 != tc.wantF1 {
				t.Errorf("f1 = %.2f, want %.2f", f1, tc.wantF1)
			}
		})
	}
}

func TestDetectionRatePercent(t *testing.T) {
	if got := DetectionRatePercent(1160, 2210); got != 52.49 {
		t.Errorf("baseline rate = %.2f, want 52.49", got)
	}
	if got := DetectionRatePercent(1589, 2210); got != 71.90 {
		t.Errorf("enhanced rate = %.2f, want 71.90", got)
	}
	if got := DetectionRatePercent(0, 0); got != 0 {
		t.Errorf("empty corpus rate = %.2f, want 0", got)
	}
}

func TestDetectionRateDelta_WildJailbreakScenario(t *testing.T) {
	// 2210 samples, 1160 detected at baseline, 1589 enhanced:
	// the measured improvement is +19.41 percentage points.
	baseline := DetectionRatePercent(1160, 2210)
	enhanced := DetectionRatePercent(1589, 2210)

	if delta := round2(enhanced - baseline); delta != 19.41 {
		t.Errorf("delta = %.2f pp, want 19.41", delta)
	}
}
