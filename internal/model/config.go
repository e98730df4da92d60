package model

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Default tuning constants for the detection engine and harness
const (
	DefaultThreshold    = 0.85  // Strict-mode confidence cutoff
	DefaultBootstrap    = 10000 // Bootstrap resample count
	DefaultMinSamplesCI = 30    // Minimum corpus size for a meaningful CI
)

// Configuration describes one engine configuration under test.
// It is supplied at engine construction and never mutated afterwards.
type Configuration struct {
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	StrictMode    bool     `json:"strict_mode" yaml:"strict_mode"`
	Threshold     float64  `json:"threshold" yaml:"threshold"`
	EnabledSets   []string `json:"enabled_sets" yaml:"enabled_sets"`
	OpinionFilter bool     `json:"opinion_filter" yaml:"opinion_filter"`
}

// DefaultConfiguration returns the full production configuration:
// all built-in pattern sets, opinion suppression, and strict mode.
func DefaultConfiguration() Configuration {
	return Configuration{
		Name:          "full",
		Description:   "All pattern sets, opinion filter, strict mode",
		StrictMode:    true,
		Threshold:     DefaultThreshold,
		EnabledSets:   []string{"base", "benchmark_informed", "multilingual"},
		OpinionFilter: true,
	}
}

// SetEnabled reports whether the named pattern set is active
func (c Configuration) SetEnabled(name string) bool {
	for _, s := range c.EnabledSets {
		if s == name {
			return true
		}
	}
	return false
}

// Fingerprint returns a stable identity string for the configuration,
// used as part of cache keys so results from different configurations
// never collide.
func (c Configuration) Fingerprint() string {
	sets := append([]string(nil), c.EnabledSets...)
	sort.Strings(sets)
	return fmt.Sprintf("strict=%t;threshold=%.4f;sets=%s;opinion=%t",
		c.StrictMode, c.Threshold, strings.Join(sets, ","), c.OpinionFilter)
}

// Config holds the complete application configuration
type Config struct {
	Detection    DetectionConfig   `yaml:"detection"`
	Evaluation   EvaluationConfig  `yaml:"evaluation"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting"`
	Cache        CacheConfig       `yaml:"cache"`
	Output       OutputConfig      `yaml:"output"`
	LLM          LLMConfig         `yaml:"llm"`
}

// DetectionConfig controls the detection engine
type DetectionConfig struct {
	StrictMode    bool     `yaml:"strict_mode"`
	Threshold     float64  `yaml:"threshold"`
	EnabledSets   []string `yaml:"enabled_sets"`
	OpinionFilter bool     `yaml:"opinion_filter"`
	PatternsFile  string   `yaml:"patterns_file"` // Optional YAML file with extra pattern sets
}

// EvaluationConfig controls the statistical harness
type EvaluationConfig struct {
	Bootstrap    int     `yaml:"bootstrap"`      // Resample count for the bootstrap CI
	MinSamplesCI int     `yaml:"min_samples_ci"` // Below this, the CI is reported as insufficient
	Alpha        float64 `yaml:"alpha"`          // Significance level for McNemar
}

// ConcurrencyConfig controls worker counts
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// RateLimitConfig controls optional pacing of evaluation runs
type RateLimitConfig struct {
	SamplesPerSecond float64 `yaml:"samples_per_second"` // 0 disables pacing
	BurstSize        int     `yaml:"burst_size"`
}

// CacheConfig controls verdict and result caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose  bool `yaml:"verbose"`
	Detailed bool `yaml:"detailed"` // Include per-sample results in reports
}

// LLMConfig holds optional LLM review settings.
// The review is commentary only and never affects metrics.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"` // Never serialized; from environment only
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			StrictMode:    true,
			Threshold:     DefaultThreshold,
			EnabledSets:   []string{"base", "benchmark_informed", "multilingual"},
			OpinionFilter: true,
		},
		Evaluation: EvaluationConfig{
			Bootstrap:    DefaultBootstrap,
			MinSamplesCI: DefaultMinSamplesCI,
			Alpha:        0.05,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		RateLimiting: RateLimitConfig{
			SamplesPerSecond: 0,
			BurstSize:        5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Output: OutputConfig{},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 1000,
		},
	}
}

// defaultCacheDir places the cache under the user's home directory,
// falling back to the OS temp dir when home cannot be resolved.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "vigil-cache")
	}
	return filepath.Join(home, ".vigil", "cache")
}

// EngineConfiguration builds the engine Configuration from app config
func (c *Config) EngineConfiguration(name string) Configuration {
	return Configuration{
		Name:          name,
		StrictMode:    c.Detection.StrictMode,
		Threshold:     c.Detection.Threshold,
		EnabledSets:   append([]string(nil), c.Detection.EnabledSets...),
		OpinionFilter: c.Detection.OpinionFilter,
	}
}
