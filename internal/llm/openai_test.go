package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vigil-sec/vigil/internal/model"
)

func sampleResult() *model.EvaluationResult {
	return &model.EvaluationResult{
		Configuration:        model.Configuration{Name: "full"},
		TotalSamples:         2210,
		Detected:             1589,
		DetectionRatePercent: 71.90,
		TruePositives:        1589,
		TrueNegatives:        600,
		FalseNegatives:       21,
		Precision:            100.0,
		Recall:               98.70,
		F1Score:              99.35,
		ConfidenceInterval95: model.ConfidenceInterval{Lower: 70.02, Upper: 73.76, Resamples: 10000},
	}
}

func TestNewOpenAIProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{})
	if err == nil {
		t.Error("expected error when API key is missing")
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	if err != nil {
		t.Errorf("empty provider should be disabled, got error: %v", err)
	}
	if p != nil {
		t.Error("empty provider should return nil provider")
	}

	if _, err := NewProvider(Config{Provider: "oracle"}); err == nil {
		t.Error("expected error for unknown provider")
	}

	p, err = NewProvider(Config{Provider: "openai", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("openai provider: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("provider name %q, want openai", p.Name())
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleResult())

	for _, want := range []string{
		"Configuration: full",
		"2210",
		"71.90% detection rate",
		"[70.02%, 73.76%]",
		"Do NOT recompute",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_InsufficientCI(t *testing.T) {
	result := sampleResult()
	result.ConfidenceInterval95 = model.ConfidenceInterval{Insufficient: true}

	prompt := BuildPrompt(result)
	if !strings.Contains(prompt, "insufficient samples") {
		t.Error("prompt should note the insufficient confidence interval")
	}
}

func TestOpenAIProvider_Review(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "  Precision is perfect; the 21 misses suggest pattern coverage gaps.  "}}],
			"usage": {"total_tokens": 142}
		}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	resp, err := provider.Review(context.Background(), ReviewRequest{Result: sampleResult()})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if !strings.HasPrefix(resp.Commentary, "Precision is perfect") {
		t.Errorf("commentary not trimmed: %q", resp.Commentary)
	}
	if resp.TokensUsed != 142 {
		t.Errorf("tokens used %d, want 142", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Review_NilResult(t *testing.T) {
	provider, err := NewOpenAIProvider(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	if _, err := provider.Review(context.Background(), ReviewRequest{}); err == nil {
		t.Error("expected error for nil result")
	}
}
