package pattern

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vigil-sec/vigil/internal/model"
)

// setsFile is the on-disk layout for additional pattern sets
type setsFile struct {
	Sets []Set `yaml:"sets"`
}

// LoadSetsFile reads extra pattern sets from a YAML file. The file lets
// deployments extend the registry without recompiling:
//
//	sets:
//	  - name: campaign_2026
//	    origin: benchmark_informed
//	    weight: 0.91
//	    rules:
//	      - id: some_rule
//	        expr: 'some\s+phrase'
func LoadSetsFile(path string) ([]Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern sets file %s: %w", path, err)
	}

	var file setsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pattern sets file %s: %w", path, err)
	}

	for i, set := range file.Sets {
		if set.Origin == "" {
			file.Sets[i].Origin = model.OriginBase
		}
	}

	return file.Sets, nil
}

// NewRegistryWithFile builds a registry from the built-in sets plus the
// sets declared in the given YAML file (empty path means built-ins only).
func NewRegistryWithFile(path string) (*Registry, error) {
	b := NewBuilder()
	for _, set := range BuiltinSets() {
		b.Add(set)
	}

	if path != "" {
		extra, err := LoadSetsFile(path)
		if err != nil {
			return nil, err
		}
		for _, set := range extra {
			b.Add(set)
		}
	}

	return b.Build()
}
