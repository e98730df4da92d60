package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigil-sec/vigil/internal/cache"
	"github.com/vigil-sec/vigil/internal/eval"
	"github.com/vigil-sec/vigil/internal/model"
)

var (
	ablationOut string
	metricsOut  string
)

// ablationCmd represents the ablation command
var ablationCmd = &cobra.Command{
	Use:   "ablation <corpus.json>",
	Short: "Measure each pipeline component's contribution",
	Long: `Ablation re-runs the full evaluation once per ladder configuration,
enabling one component at a time:
  baseline            base patterns, any match detects
  benchmark_patterns  + benchmark-informed pattern set
  opinion_filter      + opinion-statement suppression
  strict_mode         + confidence gate
  full                + multilingual patterns

Each delta is measured, not estimated: the corpus is actually
re-classified under every configuration, and McNemar's test reports
whether the change from baseline is statistically significant.

Example:
  vigil ablation corpus.json
  vigil ablation corpus.json --json ablation.json --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runAblation,
}

func init() {
	rootCmd.AddCommand(ablationCmd)

	ablationCmd.Flags().StringVar(&ablationOut, "json", "ablation.json", "output JSON path")
	ablationCmd.Flags().StringVar(&metricsOut, "metrics-json", "metrics.json", "statistical metrics report for the full configuration")
	ablationCmd.Flags().StringVar(&patternsFile, "patterns", "", "YAML file with additional pattern sets")
	ablationCmd.Flags().IntVar(&workers, "workers", 0, "concurrent workers (default: from config)")
	ablationCmd.Flags().Float64Var(&rateLimit, "rate", 0, "max samples per second (0 = unlimited)")
	ablationCmd.Flags().IntVar(&burstSize, "burst", 0, "rate limiter burst size")
	ablationCmd.Flags().IntVar(&bootstrapN, "bootstrap", model.DefaultBootstrap, "bootstrap resample count")
	ablationCmd.Flags().Int64Var(&bootSeed, "seed", 0, "bootstrap RNG seed (0 = default)")
	ablationCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable per-configuration result caching")
	ablationCmd.Flags().DurationVar(&evalTimeout, "timeout", 30*time.Minute, "total ablation timeout")
}

func runAblation(cmd *cobra.Command, args []string) error {
	corpusPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	appCfg := loadConfig()

	samples, corpusHash, err := eval.LoadCorpus(corpusPath)
	if err != nil {
		return err
	}

	if patternsFile == "" {
		patternsFile = appCfg.Detection.PatternsFile
	}
	registry, err := buildRegistry(patternsFile)
	if err != nil {
		return err
	}

	var results cache.Cache
	if appCfg.Cache.Enabled && !noCache {
		results = cache.NewDiskCache(filepath.Join(appCfg.Cache.Dir, "results"), appCfg.Cache.DiskTTL)
	} else {
		corpusHash = "" // no cache, no keying
	}

	progress := func(string, ...any) {}
	if verbose {
		progress = func(format string, a ...any) {
			fmt.Fprintf(os.Stderr, format, a...)
		}
	}

	fmt.Fprintf(os.Stderr, "⚙️  Ablation over %d samples, %d configurations...\n", len(samples), len(eval.Ladder()))

	runner := eval.NewAblationRunner(registry, evalOptions(cmd, appCfg), results, progress)
	report, evaluations, err := runner.Run(ctx, samples, nil, filepath.Base(corpusPath), corpusHash)
	if err != nil {
		return fmt.Errorf("ablation failed: %w", err)
	}

	eval.RenderAblationSummary(os.Stderr, report)

	if err := eval.WriteJSON(report, ablationOut); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Ablation report written to %s\n", ablationOut)

	// Statistical metrics for the final (full) rung, with its
	// significance vs baseline
	if metricsOut != "" && len(evaluations) > 0 {
		full := evaluations[len(evaluations)-1]
		var sig *model.McNemarResult
		if n := len(report.Significance); n > 0 {
			sig = &report.Significance[n-1]
		}
		if err := eval.WriteJSON(eval.NewStatisticalReport(full, sig), metricsOut); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Metrics report written to %s\n", metricsOut)
	}

	return nil
}
