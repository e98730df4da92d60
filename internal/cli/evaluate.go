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
	"github.com/vigil-sec/vigil/internal/llm"
	"github.com/vigil-sec/vigil/internal/model"
)

var (
	configName  string
	outJSON     string
	detailed    bool
	workers     int
	rateLimit   float64
	burstSize   int
	bootstrapN  int
	bootSeed    int64
	noCache     bool
	evalTimeout time.Duration
	llmEnabled  bool
	llmModel    string
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <corpus.json>",
	Short: "Evaluate a configuration over a labeled corpus",
	Long: `Evaluate runs every corpus sample through the detection pipeline and
reports measured metrics:
- Detection rate, precision, recall, F1 (percent scale)
- Bootstrap 95% confidence interval over the detection rate
- Per-category breakdowns

The corpus is a JSON array of {"prompt", "data_type", "is_attack"}
objects, or a {"detailed_results": [...]} envelope from a previous
detailed run.

Example:
  vigil evaluate corpus.json
  vigil evaluate corpus.json --sets base --threshold 0.90 --json strict.json
  vigil evaluate corpus.json --detailed --json detailed_report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	// Configuration flags (shared with classify via the same variables;
	// each command owns its flag set)
	evaluateCmd.Flags().StringVar(&configName, "config-name", "full", "name for the configuration under test")
	evaluateCmd.Flags().BoolVar(&strictMode, "strict", true, "require confidence >= threshold to report detection")
	evaluateCmd.Flags().Float64Var(&threshold, "threshold", model.DefaultThreshold, "strict-mode confidence threshold")
	evaluateCmd.Flags().StringSliceVar(&enabledSets, "sets", nil, "pattern sets to enable (default: all built-in sets)")
	evaluateCmd.Flags().BoolVar(&noOpinion, "no-opinion-filter", false, "disable opinion-statement suppression")
	evaluateCmd.Flags().StringVar(&patternsFile, "patterns", "", "YAML file with additional pattern sets")

	// Output flags
	evaluateCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	evaluateCmd.Flags().BoolVar(&detailed, "detailed", false, "write per-sample results (output is reusable as a corpus)")

	// Run flags
	evaluateCmd.Flags().IntVar(&workers, "workers", 0, "concurrent workers (default: from config)")
	evaluateCmd.Flags().Float64Var(&rateLimit, "rate", 0, "max samples per second (0 = unlimited)")
	evaluateCmd.Flags().IntVar(&burstSize, "burst", 0, "rate limiter burst size")
	evaluateCmd.Flags().IntVar(&bootstrapN, "bootstrap", model.DefaultBootstrap, "bootstrap resample count")
	evaluateCmd.Flags().Int64Var(&bootSeed, "seed", 0, "bootstrap RNG seed (0 = default)")
	evaluateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable verdict caching")
	evaluateCmd.Flags().DurationVar(&evalTimeout, "timeout", 10*time.Minute, "total evaluation timeout")

	// LLM flags
	evaluateCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM review of the report (commentary only)")
	evaluateCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	corpusPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	appCfg := loadConfig()

	samples, _, err := eval.LoadCorpus(corpusPath)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d samples from %s\n", len(samples), corpusPath)
	}

	eng, err := buildEngine(configName, cmd)
	if err != nil {
		return err
	}

	opts := evalOptions(cmd, appCfg)
	opts.Detailed = detailed
	if appCfg.Cache.Enabled && !noCache {
		opts.Verdicts = cache.NewLayeredCache(
			appCfg.Cache.MemoryTTL,
			filepath.Join(appCfg.Cache.Dir, "verdicts"),
			appCfg.Cache.DiskTTL,
		)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Evaluating with %d workers...\n", opts.Workers)
	}

	result, err := eval.NewHarness(eng, opts).Evaluate(ctx, samples)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	eval.RenderSummary(os.Stderr, result)

	// A detailed report doubles as a corpus for later runs, so it keeps
	// the full per-sample envelope. The compact form is the metrics
	// document.
	var out any = eval.NewStatisticalReport(result, nil)
	if detailed {
		out = result
	}
	if err := eval.WriteJSON(out, outJSON); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Report written to %s\n", outJSON)

	if llmEnabled {
		if err := reviewResult(ctx, appCfg, result); err != nil {
			// Review is commentary only; a failure never fails the run
			fmt.Fprintf(os.Stderr, "✗ LLM review skipped: %v\n", err)
		}
	}

	return nil
}

// evalOptions merges config-file defaults with run flags
func evalOptions(cmd *cobra.Command, appCfg *model.Config) eval.Options {
	opts := eval.Options{
		Workers:          appCfg.Concurrency.Workers,
		Bootstrap:        appCfg.Evaluation.Bootstrap,
		MinSamplesCI:     appCfg.Evaluation.MinSamplesCI,
		Alpha:            appCfg.Evaluation.Alpha,
		SamplesPerSecond: appCfg.RateLimiting.SamplesPerSecond,
		Burst:            appCfg.RateLimiting.BurstSize,
		Seed:             bootSeed,
	}
	if workers > 0 {
		opts.Workers = workers
	}
	if cmd.Flags().Changed("bootstrap") {
		opts.Bootstrap = bootstrapN
	}
	if cmd.Flags().Changed("rate") {
		opts.SamplesPerSecond = rateLimit
	}
	if burstSize > 0 {
		opts.Burst = burstSize
	}
	return opts
}

// reviewResult runs the optional post-hoc LLM review and prints the
// commentary. It never modifies the result.
func reviewResult(ctx context.Context, appCfg *model.Config, result *model.EvaluationResult) error {
	llmCfg := appCfg.LLM
	if llmCfg.Provider == "" {
		llmCfg.Provider = "openai"
	}
	if llmModel != "" {
		llmCfg.Model = llmModel
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(llmCfg))
	if err != nil {
		return err
	}
	if provider == nil {
		return fmt.Errorf("no LLM provider configured")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Requesting %s review...\n", provider.Name())
	}

	resp, err := provider.Review(ctx, llm.ReviewRequest{Result: result})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n── Review (%s, %d tokens) ──\n%s\n\n", resp.Model, resp.TokensUsed, resp.Commentary)
	return nil
}
