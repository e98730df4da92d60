package worker

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vigil-sec/vigil/internal/model"
)

// stubClassifier flags any prompt containing "attack" and panics on
// prompts containing "boom".
type stubClassifier struct{}

func (stubClassifier) Classify(text string) model.Verdict {
	if strings.Contains(text, "boom") {
		panic("synthetic fault")
	}
	if strings.Contains(text, "attack") {
		return model.Verdict{Detected: true, Confidence: 0.9, Reason: model.ReasonPatternMatch}
	}
	return model.Verdict{Reason: model.ReasonNoMatch}
}

func TestBatchProcessor_Process(t *testing.T) {
	samples := []model.Sample{
		{Prompt: "an attack prompt", DataType: "adversarial_harmful"},
		{Prompt: "a benign prompt", DataType: "vanilla_benign"},
		{Prompt: "another attack here", DataType: "adversarial_harmful"},
	}

	b := NewBatchProcessor(stubClassifier{}, 2, "test", 0, 0)
	results := b.Process(context.Background(), samples)

	if len(results) != len(samples) {
		t.Fatalf("expected %d results, got %d", len(samples), len(results))
	}

	for i, res := range results {
		if res.Index != i {
			t.Errorf("result %d has index %d", i, res.Index)
		}
		if res.Err != nil {
			t.Errorf("result %d: unexpected error %v", i, res.Err)
		}
	}

	if !results[0].Verdict.Detected || results[1].Verdict.Detected || !results[2].Verdict.Detected {
		t.Errorf("unexpected detection pattern: %v %v %v",
			results[0].Verdict.Detected, results[1].Verdict.Detected, results[2].Verdict.Detected)
	}
}

func TestBatchProcessor_PanicIsolation(t *testing.T) {
	samples := []model.Sample{
		{Prompt: "fine"},
		{Prompt: "boom"},
		{Prompt: "attack prompt"},
	}

	b := NewBatchProcessor(stubClassifier{}, 2, "test", 0, 0)
	results := b.Process(context.Background(), samples)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if results[1].Err == nil {
		t.Error("expected the faulting sample to carry an error")
	}
	if results[1].Verdict.Detected {
		t.Error("a faulted sample must count as not detected")
	}

	// Remaining samples keep their verdicts
	if results[2].Err != nil || !results[2].Verdict.Detected {
		t.Error("a fault in one sample must not affect the others")
	}
}

func TestBatchProcessor_LargeCorpus(t *testing.T) {
	// The pool's queues hold workers*2 entries each; a corpus far
	// larger than that only completes when submission and collection
	// overlap. A few workers against hundreds of samples exercises
	// exactly that.
	samples := make([]model.Sample, 500)
	for i := range samples {
		prompt := "a benign prompt"
		if i%3 == 0 {
			prompt = "an attack prompt"
		}
		samples[i] = model.Sample{Prompt: prompt}
	}

	b := NewBatchProcessor(stubClassifier{}, 2, "test", 0, 0)

	done := make(chan []*ClassifyResult, 1)
	go func() {
		done <- b.Process(context.Background(), samples)
	}()

	var results []*ClassifyResult
	select {
	case results = <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("Process stalled: %d samples with 2 workers never completed", len(samples))
	}

	if len(results) != len(samples) {
		t.Fatalf("expected %d results, got %d", len(samples), len(results))
	}

	detected := 0
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("result %d: unexpected error %v", i, res.Err)
		}
		if res.Index != i {
			t.Fatalf("result %d slotted at index %d", res.Index, i)
		}
		if res.Verdict.Detected {
			detected++
		}
	}
	if want := (len(samples) + 2) / 3; detected != want {
		t.Errorf("detected %d samples, want %d", detected, want)
	}
}

func TestBatchProcessor_EmptyCorpus(t *testing.T) {
	b := NewBatchProcessor(stubClassifier{}, 4, "test", 0, 0)
	results := b.Process(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestLimiter_Pacing(t *testing.T) {
	// 100 samples/s with burst 1: three waits need roughly 20ms
	l := NewLimiter(100, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(context.Background(), "cfg"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("expected pacing to take at least 15ms, took %v", elapsed)
	}
}

func TestLimiter_PerConfiguration(t *testing.T) {
	l := NewLimiter(1, 1)

	// Each configuration has its own bucket: first call on each is
	// immediate even though they share the limiter.
	if !l.Allow("a") {
		t.Error("first sample for config a should be allowed")
	}
	if !l.Allow("b") {
		t.Error("first sample for config b should be allowed")
	}
	if l.Allow("a") {
		t.Error("second immediate sample for config a should be limited")
	}
}
