package eval

import (
	"bytes"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/vigil-sec/vigil/internal/cache"
	"github.com/vigil-sec/vigil/internal/model"
)

// corpusEnvelope is the evaluation-report envelope form of a corpus.
// Detailed reports written by this tool can be re-read as corpora.
type corpusEnvelope struct {
	DetailedResults []model.Sample `json:"detailed_results"`
}

// LoadCorpus reads a labeled corpus from a JSON file. Both a bare array
// of samples and a {"detailed_results": [...]} envelope are accepted.
// It returns the samples and a content hash used for result caching.
func LoadCorpus(path string) ([]model.Sample, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf(
				"corpus file %s does not exist; export a labeled benchmark corpus or produce one with 'vigil evaluate --detailed --json %s'",
				path, path)
		}
		return nil, "", fmt.Errorf("read corpus %s: %w", path, err)
	}

	samples, err := ParseCorpus(data)
	if err != nil {
		return nil, "", fmt.Errorf("parse corpus %s: %w", path, err)
	}

	return samples, cache.CorpusHash(data), nil
}

// ParseCorpus decodes corpus bytes in either accepted layout
func ParseCorpus(data []byte) ([]model.Sample, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}

	var samples []model.Sample
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &samples); err != nil {
			return nil, fmt.Errorf("decode sample array: %w", err)
		}
	} else {
		var env corpusEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode corpus envelope: %w", err)
		}
		samples = env.DetailedResults
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("corpus contains no samples")
	}

	return samples, nil
}
