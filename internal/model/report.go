package model

import "time"

// EvaluationResult aggregates detection outcomes over a labeled corpus.
// All numeric rates are percent-scale, rounded to two decimals.
// The struct is built once by the harness and never mutated afterwards.
type EvaluationResult struct {
	Configuration Configuration `json:"configuration"`
	EvaluatedAt   time.Time     `json:"evaluated_at"`

	TotalSamples         int     `json:"total_samples"`
	Detected             int     `json:"detected"`
	DetectionRatePercent float64 `json:"detection_rate_percent"`

	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	TrueNegatives  int `json:"true_negatives"`
	FalseNegatives int `json:"false_negatives"`

	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`

	ConfidenceInterval95 ConfidenceInterval `json:"confidence_interval_95"`

	PerCategory map[string]CategoryMetrics `json:"per_category,omitempty"`

	// Outcomes holds the per-sample detection vector in corpus order,
	// required for paired significance testing between configurations.
	Outcomes []bool `json:"-"`

	Failures []SampleFailure `json:"failures,omitempty"`

	DetailedResults []DetailedResult `json:"detailed_results,omitempty"`
}

// ConfidenceInterval is a bootstrap 95% interval over the detection rate,
// percent-scale. Insufficient marks corpora too small for a meaningful CI.
type ConfidenceInterval struct {
	Lower        float64 `json:"lower"`
	Upper        float64 `json:"upper"`
	Resamples    int     `json:"resamples,omitempty"`
	Insufficient bool    `json:"insufficient,omitempty"`
}

// CategoryMetrics holds per-category precision/recall/F1
type CategoryMetrics struct {
	Samples  int `json:"samples"`
	Detected int `json:"detected"`

	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`

	ConfidenceInterval95 ConfidenceInterval `json:"confidence_interval_95"`
}

// SampleFailure records a sample whose classification faulted.
// Faulted samples count as not detected; the run continues.
type SampleFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// DetailedResult is one per-sample outcome row. Its field names match the
// corpus sample format so a detailed report can be re-read as a corpus.
type DetailedResult struct {
	Prompt     string  `json:"prompt"`
	DataType   string  `json:"data_type,omitempty"`
	IsAttack   *bool   `json:"is_attack,omitempty"`
	Detected   bool    `json:"detected"`
	Confidence float64 `json:"confidence"`
	Reason     Reason  `json:"reason"`
}

// McNemarResult is the outcome of a paired significance test between
// two configurations' detection vectors over the same samples.
type McNemarResult struct {
	Baseline      string  `json:"baseline,omitempty"`
	Candidate     string  `json:"candidate,omitempty"`
	OnlyBaseline  int     `json:"only_baseline"`  // b: detected by baseline only
	OnlyCandidate int     `json:"only_candidate"` // c: detected by candidate only
	Statistic     float64 `json:"statistic"`
	PValue        float64 `json:"p_value"`
	Significant   bool    `json:"significant"`
}

// ConfigurationRun pairs one configuration with its measured result
// inside an ablation report.
type ConfigurationRun struct {
	Configuration string        `json:"configuration"`
	Description   string        `json:"description,omitempty"`
	DetectionRate float64       `json:"detection_rate"`
	TotalSamples  int           `json:"total_samples"`
	Detected      int           `json:"detected"`
	Parameters    Configuration `json:"parameters"`
}

// AblationDelta is the percentage-point change of one configuration
// relative to the designated baseline.
type AblationDelta struct {
	Configuration string  `json:"configuration"`
	DeltaPercent  float64 `json:"delta_percentage_points"`
}

// AblationReport compares a ladder of configurations over one corpus.
// Every number in it is measured by re-running the engine, never estimated.
type AblationReport struct {
	Corpus         string             `json:"corpus"`
	EvaluatedAt    time.Time          `json:"evaluated_at"`
	Baseline       string             `json:"baseline"`
	Configurations []ConfigurationRun `json:"configurations"`
	Analysis       []AblationDelta    `json:"analysis"`
	Significance   []McNemarResult    `json:"statistical_significance,omitempty"`
}
