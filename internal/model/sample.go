package model

import "strings"

// Sample is one labeled input from a benchmark corpus
type Sample struct {
	Prompt   string `json:"prompt"`              // Input text to classify
	DataType string `json:"data_type,omitempty"` // Corpus category (e.g., "adversarial_harmful", "vanilla_benign")
	IsAttack *bool  `json:"is_attack,omitempty"` // Explicit ground-truth label, when present
	Detected bool   `json:"detected,omitempty"`  // Prior detection outcome (set when re-reading a report)
}

// Label returns the ground-truth attack label for the sample.
// An explicit is_attack field wins; otherwise the label is derived
// from the data_type naming convention used by adversarial benchmarks.
func (s Sample) Label() bool {
	if s.IsAttack != nil {
		return *s.IsAttack
	}

	dt := strings.ToLower(s.DataType)
	if strings.Contains(dt, "benign") {
		return false
	}
	if strings.Contains(dt, "adversarial") || strings.Contains(dt, "harmful") || strings.Contains(dt, "attack") {
		return true
	}

	return false
}

// Category returns the grouping key for per-category metrics
func (s Sample) Category() string {
	if s.DataType == "" {
		return "uncategorized"
	}
	return s.DataType
}
