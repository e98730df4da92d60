package eval

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/vigil-sec/vigil/internal/cache"
	"github.com/vigil-sec/vigil/internal/engine"
	"github.com/vigil-sec/vigil/internal/model"
	"github.com/vigil-sec/vigil/internal/pattern"
)

// Ladder returns the standard ablation ladder: each configuration
// enables exactly one more component than the previous, so measured
// deltas attribute performance to individual components. The first
// entry is the designated baseline.
func Ladder() []model.Configuration {
	return []model.Configuration{
		{
			Name:        "baseline",
			Description: "Base patterns only, any match detects",
			EnabledSets: []string{"base"},
		},
		{
			Name:        "benchmark_patterns",
			Description: "Adds benchmark-informed pattern set",
			EnabledSets: []string{"base", "benchmark_informed"},
		},
		{
			Name:          "opinion_filter",
			Description:   "Adds opinion-statement suppression",
			EnabledSets:   []string{"base", "benchmark_informed"},
			OpinionFilter: true,
		},
		{
			Name:          "strict_mode",
			Description:   "Adds the strict confidence gate",
			EnabledSets:   []string{"base", "benchmark_informed"},
			OpinionFilter: true,
			StrictMode:    true,
			Threshold:     model.DefaultThreshold,
		},
		{
			Name:          "full",
			Description:   "Adds multilingual patterns",
			EnabledSets:   []string{"base", "benchmark_informed", "multilingual"},
			OpinionFilter: true,
			StrictMode:    true,
			Threshold:     model.DefaultThreshold,
		},
	}
}

// AblationRunner measures a ladder of configurations over one corpus.
// Every number in the report comes from actually re-running the engine
// with components toggled; nothing is estimated.
type AblationRunner struct {
	registry *pattern.Registry
	opts     Options
	results  cache.Cache // optional per-configuration result cache
	verbose  func(format string, args ...any)
}

// NewAblationRunner creates a runner. resultCache may be nil; verbose
// may be nil to silence progress output.
func NewAblationRunner(registry *pattern.Registry, opts Options, resultCache cache.Cache, verbose func(string, ...any)) *AblationRunner {
	if verbose == nil {
		verbose = func(string, ...any) {}
	}
	return &AblationRunner{
		registry: registry,
		opts:     opts,
		results:  resultCache,
		verbose:  verbose,
	}
}

// cachedRun is the disk-cache payload for one configuration's run
type cachedRun struct {
	Result   *model.EvaluationResult `json:"result"`
	Outcomes []bool                  `json:"outcomes"`
}

// Run evaluates every ladder configuration and assembles the report.
// corpusName labels the report; corpusHash keys the result cache.
func (r *AblationRunner) Run(ctx context.Context, samples []model.Sample, configs []model.Configuration, corpusName, corpusHash string) (*model.AblationReport, []*model.EvaluationResult, error) {
	if len(configs) == 0 {
		configs = Ladder()
	}

	report := &model.AblationReport{
		Corpus:      corpusName,
		EvaluatedAt: time.Now().UTC(),
		Baseline:    configs[0].Name,
	}

	var evaluations []*model.EvaluationResult

	for _, cfg := range configs {
		result, err := r.runOne(ctx, samples, cfg, corpusHash)
		if err != nil {
			return nil, nil, fmt.Errorf("configuration %q: %w", cfg.Name, err)
		}

		evaluations = append(evaluations, result)
		report.Configurations = append(report.Configurations, model.ConfigurationRun{
			Configuration: cfg.Name,
			Description:   cfg.Description,
			DetectionRate: result.DetectionRatePercent,
			TotalSamples:  result.TotalSamples,
			Detected:      result.Detected,
			Parameters:    cfg,
		})
	}

	baseline := evaluations[0]
	for i, result := range evaluations {
		if i == 0 {
			continue
		}

		report.Analysis = append(report.Analysis, model.AblationDelta{
			Configuration: result.Configuration.Name,
			DeltaPercent:  round2(result.DetectionRatePercent - baseline.DetectionRatePercent),
		})

		mcnemar, err := McNemarFromOutcomes(baseline.Outcomes, result.Outcomes, r.opts.Alpha)
		if err != nil {
			return nil, nil, fmt.Errorf("significance %s vs %s: %w", baseline.Configuration.Name, result.Configuration.Name, err)
		}
		mcnemar.Baseline = baseline.Configuration.Name
		mcnemar.Candidate = result.Configuration.Name
		report.Significance = append(report.Significance, mcnemar)
	}

	return report, evaluations, nil
}

// runOne evaluates one configuration, consulting the result cache first
func (r *AblationRunner) runOne(ctx context.Context, samples []model.Sample, cfg model.Configuration, corpusHash string) (*model.EvaluationResult, error) {
	var key string
	if r.results != nil && corpusHash != "" {
		key = cache.ResultKey(corpusHash, cfg.Fingerprint())
		if data, found := r.results.Get(key); found {
			var cached cachedRun
			if err := json.Unmarshal(data, &cached); err == nil && cached.Result != nil {
				cached.Result.Outcomes = cached.Outcomes
				r.verbose("✓ %s (cached)\n", cfg.Name)
				return cached.Result, nil
			}
		}
	}

	eng, err := engine.New(r.registry, cfg)
	if err != nil {
		return nil, err
	}

	r.verbose("⚙️  Evaluating %s over %d samples...\n", cfg.Name, len(samples))

	result, err := NewHarness(eng, r.opts).Evaluate(ctx, samples)
	if err != nil {
		return nil, err
	}

	r.verbose("✓ %s: %d/%d detected (%.2f%%)\n", cfg.Name, result.Detected, result.TotalSamples, result.DetectionRatePercent)

	if key != "" {
		if data, err := json.Marshal(cachedRun{Result: result, Outcomes: result.Outcomes}); err == nil {
			_ = r.results.Set(key, data, 0)
		}
	}

	return result, nil
}
