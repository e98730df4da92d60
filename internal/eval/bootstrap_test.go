package eval

import (
	"context"
	"testing"
)

func TestBootstrapCI_DegenerateFullDetection(t *testing.T) {
	outcomes := make([]bool, 50)
	for i := range outcomes {
		outcomes[i] = true
	}

	ci, err := BootstrapCI(context.Background(), outcomes, BootstrapOptions{Resamples: 1000})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if ci.Insufficient {
		t.Fatal("50 samples should be sufficient")
	}
	if ci.Lower != 100.0 || ci.Upper != 100.0 {
		t.Errorf("CI = [%.2f, %.2f], want degenerate [100.00, 100.00]", ci.Lower, ci.Upper)
	}
}

func TestBootstrapCI_DegenerateZeroDetection(t *testing.T) {
	outcomes := make([]bool, 50)

	ci, err := BootstrapCI(context.Background(), outcomes, BootstrapOptions{Resamples: 1000})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ci.Lower != 0.0 || ci.Upper != 0.0 {
		t.Errorf("CI = [%.2f, %.2f], want [0.00, 0.00]", ci.Lower, ci.Upper)
	}
}

func TestBootstrapCI_BracketsObservedRate(t *testing.T) {
	// 60% detection over 200 samples: the interval must contain 60
	// and stay inside [0, 100].
	outcomes := make([]bool, 200)
	for i := 0; i < 120; i++ {
		outcomes[i] = true
	}

	ci, err := BootstrapCI(context.Background(), outcomes, BootstrapOptions{Resamples: 5000, Workers: 4})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if ci.Lower >= ci.Upper {
		t.Errorf("CI = [%.2f, %.2f] is not a proper interval", ci.Lower, ci.Upper)
	}
	if ci.Lower > 60.0 || ci.Upper < 60.0 {
		t.Errorf("CI = [%.2f, %.2f] does not bracket the observed 60%%", ci.Lower, ci.Upper)
	}
	if ci.Lower < 0 || ci.Upper > 100 {
		t.Errorf("CI = [%.2f, %.2f] escapes [0, 100]", ci.Lower, ci.Upper)
	}
}

func TestBootstrapCI_Insufficient(t *testing.T) {
	outcomes := []bool{true, false, true}

	ci, err := BootstrapCI(context.Background(), outcomes, BootstrapOptions{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ci.Insufficient {
		t.Error("3 samples must yield a structured insufficient-data interval")
	}
}

func TestBootstrapCI_Reproducible(t *testing.T) {
	outcomes := make([]bool, 100)
	for i := 0; i < 37; i++ {
		outcomes[i] = true
	}

	opts := BootstrapOptions{Resamples: 2000, Workers: 2, Seed: 42}

	first, err := BootstrapCI(context.Background(), outcomes, opts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := BootstrapCI(context.Background(), outcomes, opts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if first != second {
		t.Errorf("same seed produced different intervals: %+v vs %+v", first, second)
	}
}

func TestBootstrapCI_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := make([]bool, 100)
	_, err := BootstrapCI(ctx, outcomes, BootstrapOptions{Resamples: 100000})
	if err == nil {
		t.Error("expected cancellation error")
	}
}
