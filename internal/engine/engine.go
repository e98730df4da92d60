package engine

import (
	"fmt"
	"strings"

	"github.com/vigil-sec/vigil/internal/model"
	"github.com/vigil-sec/vigil/internal/opinion"
	"github.com/vigil-sec/vigil/internal/pattern"
	"github.com/vigil-sec/vigil/internal/score"
)

// Engine classifies inputs through a fixed stage pipeline:
//
//	empty_check -> normalize -> opinion_check -> pattern_match -> confidence_score -> strict_gate
//
// Empty input and opinion statements terminate early. The opinion check
// must run before pattern matching is finalized: an opinion verdict
// overrides any pattern hit regardless of confidence.
//
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	registry *pattern.Registry
	filter   *opinion.Filter
	scorer   *score.Scorer
	cfg      model.Configuration
}

// New creates an engine for one configuration. The configuration's
// enabled sets must all exist in the registry.
func New(registry *pattern.Registry, cfg model.Configuration) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("nil pattern registry")
	}
	if len(cfg.EnabledSets) == 0 {
		return nil, fmt.Errorf("configuration %q enables no pattern sets", cfg.Name)
	}
	for _, name := range cfg.EnabledSets {
		if !registry.Has(name) {
			return nil, fmt.Errorf("configuration %q references unknown pattern set %q", cfg.Name, name)
		}
	}
	if cfg.StrictMode && (cfg.Threshold <= 0 || cfg.Threshold > 1) {
		return nil, fmt.Errorf("configuration %q: strict threshold %.2f outside (0,1]", cfg.Name, cfg.Threshold)
	}

	return &Engine{
		registry: registry,
		filter:   opinion.NewFilter(),
		scorer:   score.NewScorer(),
		cfg:      cfg,
	}, nil
}

// Config returns the engine's configuration
func (e *Engine) Config() model.Configuration {
	return e.cfg
}

// Classify runs the full pipeline over one input. It is pure: identical
// input and configuration always produce identical verdicts.
func (e *Engine) Classify(text string) model.Verdict {
	// 1. Empty check on raw input
	if strings.TrimSpace(text) == "" {
		return model.Verdict{Reason: model.ReasonEmptyInput}
	}

	// 2. Normalize; markup-only input reduces to empty
	normalized := Normalize(text)
	if normalized == "" {
		return model.Verdict{Reason: model.ReasonEmptyInput}
	}

	// 3. Opinion suppression
	if e.cfg.OpinionFilter && e.filter.IsOpinion(normalized) {
		return model.Verdict{
			Detected:   false,
			Confidence: opinion.Confidence,
			Reason:     model.ReasonOpinionStatement,
		}
	}

	// 4. Pattern matching
	hits := e.registry.Match(normalized, e.cfg.EnabledSets)

	// 5. Confidence scoring
	confidence, top := e.scorer.Score(hits)

	// 6. Strict-mode gate
	return e.gate(confidence, top, hits)
}

// gate applies the final threshold decision
func (e *Engine) gate(confidence float64, top *model.PatternHit, hits []model.PatternHit) model.Verdict {
	if top == nil {
		return model.Verdict{Reason: model.ReasonNoMatch}
	}

	v := model.Verdict{
		Confidence: confidence,
		PatternID:  top.PatternID,
		Hits:       hits,
	}

	if e.cfg.StrictMode {
		if confidence >= e.cfg.Threshold {
			v.Detected = true
			v.Reason = matchReason(top.Origin)
		} else {
			v.Reason = model.ReasonBelowThreshold
		}
		return v
	}

	// Non-strict: any match suffices. Lower precision, higher recall;
	// this is the configuration ablation runs use to isolate the
	// strict gate's contribution.
	v.Detected = confidence > 0
	if v.Detected {
		v.Reason = matchReason(top.Origin)
	} else {
		v.Reason = model.ReasonNoMatch
	}
	return v
}

func matchReason(origin model.Origin) model.Reason {
	if origin == model.OriginBenchmarkInformed {
		return model.ReasonBenchmarkPatternMatch
	}
	return model.ReasonPatternMatch
}
