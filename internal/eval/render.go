package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/vigil-sec/vigil/internal/model"
)

// StatisticalReport is the downstream-facing metrics document: per-
// category precision/recall/F1 with bootstrap intervals, an overall
// aggregate block, and the McNemar result when a comparison was run.
// The headline counts repeat at top level so the compact document
// reads the same as a detailed evaluation report.
type StatisticalReport struct {
	Configuration        model.Configuration `json:"configuration"`
	TotalSamples         int                 `json:"total_samples"`
	Detected             int                 `json:"detected"`
	DetectionRatePercent float64             `json:"detection_rate_percent"`

	Categories map[string]model.CategoryMetrics `json:"categories"`
	Overall    OverallMetrics                   `json:"overall"`

	StatisticalSignificance *model.McNemarResult `json:"statistical_significance,omitempty"`
}

// OverallMetrics is the corpus-wide aggregate block
type OverallMetrics struct {
	TotalSamples         int                      `json:"total_samples"`
	Detected             int                      `json:"detected"`
	DetectionRatePercent float64                  `json:"detection_rate_percent"`
	Precision            float64                  `json:"precision"`
	Recall               float64                  `json:"recall"`
	F1Score              float64                  `json:"f1_score"`
	ConfidenceInterval95 model.ConfidenceInterval `json:"confidence_interval_95"`
}

// NewStatisticalReport assembles the metrics document from an
// evaluation result and an optional significance test.
func NewStatisticalReport(result *model.EvaluationResult, significance *model.McNemarResult) *StatisticalReport {
	return &StatisticalReport{
		Configuration:        result.Configuration,
		TotalSamples:         result.TotalSamples,
		Detected:             result.Detected,
		DetectionRatePercent: result.DetectionRatePercent,
		Categories:           result.PerCategory,
		Overall: OverallMetrics{
			TotalSamples:         result.TotalSamples,
			Detected:             result.Detected,
			DetectionRatePercent: result.DetectionRatePercent,
			Precision:            result.Precision,
			Recall:               result.Recall,
			F1Score:              result.F1Score,
			ConfidenceInterval95: result.ConfidenceInterval95,
		},
		StatisticalSignificance: significance,
	}
}

// WriteJSON renders any report value as indented JSON to a file
func WriteJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

// RenderSummary prints a human-readable digest of an evaluation result
func RenderSummary(w io.Writer, result *model.EvaluationResult) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Configuration:  %s\n", result.Configuration.Name)
	fmt.Fprintf(w, "  Samples:        %d\n", result.TotalSamples)
	fmt.Fprintf(w, "  Detected:       %d (%.2f%%)\n", result.Detected, result.DetectionRatePercent)
	fmt.Fprintf(w, "  Precision:      %.2f%%\n", result.Precision)
	fmt.Fprintf(w, "  Recall:         %.2f%%\n", result.Recall)
	fmt.Fprintf(w, "  F1:             %.2f%%\n", result.F1Score)

	ci := result.ConfidenceInterval95
	if ci.Insufficient {
		fmt.Fprintf(w, "  95%% CI:         insufficient samples\n")
	} else {
		fmt.Fprintf(w, "  95%% CI:         [%.2f%%, %.2f%%]\n", ci.Lower, ci.Upper)
	}

	if len(result.Failures) > 0 {
		fmt.Fprintf(w, "  Failures:       %d samples faulted (counted as not detected)\n", len(result.Failures))
	}
	fmt.Fprintf(w, "\n")
}

// RenderAblationSummary prints a digest of an ablation report
func RenderAblationSummary(w io.Writer, report *model.AblationReport) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Baseline: %s\n", report.Baseline)
	fmt.Fprintf(w, "\n")

	for _, run := range report.Configurations {
		fmt.Fprintf(w, "  %-22s %6.2f%%  (%d/%d)\n", run.Configuration, run.DetectionRate, run.Detected, run.TotalSamples)
	}

	fmt.Fprintf(w, "\n")
	for _, delta := range report.Analysis {
		fmt.Fprintf(w, "  %-22s %+.2f pp vs %s\n", delta.Configuration, delta.DeltaPercent, report.Baseline)
	}

	for _, sig := range report.Significance {
		verdict := "not significant"
		if sig.Significant {
			verdict = "significant"
		}
		fmt.Fprintf(w, "  %-22s McNemar χ²=%.2f p=%.4f (%s)\n", sig.Candidate, sig.Statistic, sig.PValue, verdict)
	}
	fmt.Fprintf(w, "\n")
}
