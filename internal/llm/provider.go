package llm

import (
	"context"
	"fmt"

	"github.com/vigil-sec/vigil/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Review generates post-hoc commentary on an evaluation result.
	// The commentary is advisory only and never alters any metric.
	Review(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ReviewRequest contains the input for LLM report review
type ReviewRequest struct {
	// Result is the measured evaluation to comment on
	Result *model.EvaluationResult

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ReviewResponse contains the LLM's commentary
type ReviewResponse struct {
	// Commentary is the generated review text
	Commentary string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the API
	APIKey string

	// BaseURL for custom or proxy endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 1000,
	}
}

// BuildPrompt constructs the default review prompt. Every number in the
// prompt is a measured value; the model is instructed to comment, not
// to recompute or estimate.
func BuildPrompt(result *model.EvaluationResult) string {
	prompt := fmt.Sprintf(`You are reviewing a measured evaluation of an adversarial-input detection engine.

CRITICAL RULES:
1. All numbers below were measured over a labeled corpus. Do NOT recompute, adjust, or estimate any figure.
2. Comment on what the numbers suggest: precision/recall balance, error profile, coverage gaps.
3. If a figure is missing or marked insufficient, state that explicitly instead of guessing.
4. Never claim the system is "safe" or "unsafe" - only describe the measured trade-offs.

Evaluation:
- Configuration: %s
- Samples: %d (%d detected, %.2f%% detection rate)
- True positives: %d, false positives: %d
- True negatives: %d, false negatives: %d
- Precision: %.2f%%, Recall: %.2f%%, F1: %.2f%%
`,
		result.Configuration.Name,
		result.TotalSamples, result.Detected, result.DetectionRatePercent,
		result.TruePositives, result.FalsePositives,
		result.TrueNegatives, result.FalseNegatives,
		result.Precision, result.Recall, result.F1Score)

	ci := result.ConfidenceInterval95
	switch {
	case ci.Insufficient:
		prompt += "- 95% CI: insufficient samples for a bootstrap interval\n"
	case ci.Resamples > 0:
		prompt += fmt.Sprintf("- 95%% CI for detection rate: [%.2f%%, %.2f%%] (%d resamples)\n", ci.Lower, ci.Upper, ci.Resamples)
	}

	if len(result.Failures) > 0 {
		prompt += fmt.Sprintf("- Sample failures during evaluation: %d\n", len(result.Failures))
	}

	prompt += "\nProvide a 3-4 sentence review focusing on the error profile and what kind of inputs likely drive it."

	return prompt
}
