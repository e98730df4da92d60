package eval

import "testing"

func TestMcNemar_NoDiscordantPairs(t *testing.T) {
	res := McNemar(0, 0, DefaultAlpha)

	if res.Statistic != 0.0 {
		t.Errorf("statistic = %.4f, want 0.0", res.Statistic)
	}
	if res.PValue != 1.0 {
		t.Errorf("p-value = %.4f, want 1.0", res.PValue)
	}
	if res.Significant {
		t.Error("identical configurations must not be significant")
	}
}

func TestMcNemar_ContinuityCorrection(t *testing.T) {
	// b=5, c=15: statistic = (|5-15|-1)^2 / 20 = 81/20 = 4.05
	res := McNemar(5, 15, DefaultAlpha)

	if got := res.Statistic; got < 4.049 || got > 4.051 {
		t.Errorf("statistic = %.4f, want 4.05", got)
	}
	// chi-square(1) critical value at 0.05 is 3.84; 4.05 clears it
	if !res.Significant {
		t.Errorf("expected significance, p=%.4f", res.PValue)
	}
	if res.PValue <= 0 || res.PValue >= 0.05 {
		t.Errorf("p-value %.4f outside (0, 0.05)", res.PValue)
	}
}

func TestMcNemar_SmallDifference(t *testing.T) {
	// b=10, c=12: statistic = 1/22 ≈ 0.045, nowhere near significant
	res := McNemar(10, 12, DefaultAlpha)

	if res.Significant {
		t.Errorf("expected no significance, p=%.4f", res.PValue)
	}
	if res.PValue < 0.5 {
		t.Errorf("p-value %.4f suspiciously small for near-identical counts", res.PValue)
	}
}

func TestMcNemarFromCounts_WildJailbreakScenario(t *testing.T) {
	// Baseline detects 1160/2210, enhanced detects 1589/2210. With the
	// nested-detection assumption b=0, c=429: a very large statistic
	// and an emphatic rejection of "no difference".
	res, err := McNemarFromCounts(1160, 1589, 2210, DefaultAlpha)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if res.OnlyBaseline != 0 {
		t.Errorf("b = %d, want 0", res.OnlyBaseline)
	}
	if res.OnlyCandidate != 429 {
		t.Errorf("c = %d, want 429", res.OnlyCandidate)
	}
	if res.Statistic < 400 {
		t.Errorf("statistic = %.2f, expected a large value", res.Statistic)
	}
	if res.PValue >= 0.05 {
		t.Errorf("p-value = %.6f, want < 0.05", res.PValue)
	}
	if !res.Significant {
		t.Error("expected a significant difference")
	}
}

func TestMcNemarFromCounts_Invalid(t *testing.T) {
	if _, err := McNemarFromCounts(10, 5, 8, DefaultAlpha); err == nil {
		t.Error("expected error for counts exceeding total")
	}
	if _, err := McNemarFromCounts(-1, 5, 10, DefaultAlpha); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestMcNemarFromOutcomes(t *testing.T) {
	baseline := []bool{true, true, false, false, true, false}
	candidate := []bool{true, false, true, true, true, false}

	// b: index 1 (baseline only); c: indexes 2, 3 (candidate only)
	res, err := McNemarFromOutcomes(baseline, candidate, DefaultAlpha)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.OnlyBaseline != 1 || res.OnlyCandidate != 2 {
		t.Errorf("discordant counts (%d, %d), want (1, 2)", res.OnlyBaseline, res.OnlyCandidate)
	}

	if _, err := McNemarFromOutcomes(baseline, candidate[:3], DefaultAlpha); err == nil {
		t.Error("expected error for mismatched vector lengths")
	}
}
