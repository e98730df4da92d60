package model

// Reason classifies why the engine reached its verdict
type Reason string

const (
	ReasonEmptyInput            Reason = "empty_input"             // Nothing to classify
	ReasonOpinionStatement      Reason = "opinion_statement"       // Subjective statement, detection suppressed
	ReasonPatternMatch          Reason = "pattern_match"           // Base pattern over threshold
	ReasonBenchmarkPatternMatch Reason = "benchmark_pattern_match" // Benchmark-informed pattern over threshold
	ReasonBelowThreshold        Reason = "below_threshold"         // Matched, but confidence under strict threshold
	ReasonNoMatch               Reason = "no_match"                // No pattern matched
)

// Origin tags where a pattern set came from
type Origin string

const (
	OriginBase              Origin = "base"               // Hand-curated injection/jailbreak rules
	OriginBenchmarkInformed Origin = "benchmark_informed" // Rules derived from adversarial benchmark corpora
)

// PatternHit records a single pattern match against an input
type PatternHit struct {
	PatternID string  `json:"pattern_id"`       // Stable pattern identifier (e.g., "base:ignore_instructions")
	Set       string  `json:"set"`              // Pattern set the rule belongs to
	Origin    Origin  `json:"origin"`           // base or benchmark_informed
	Weight    float64 `json:"weight"`           // Base confidence weight of the rule
}

// Verdict is the immutable result of one classification call
type Verdict struct {
	Detected   bool         `json:"detected"`              // Final binary decision
	Confidence float64      `json:"confidence"`            // Always in [0,1]
	Reason     Reason       `json:"reason"`                // Terminal stage that produced the verdict
	PatternID  string       `json:"pattern_id,omitempty"`  // Strongest matching pattern, if any
	Hits       []PatternHit `json:"hits,omitempty"`        // All pattern hits (diagnostic)
}
