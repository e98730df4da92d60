package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vigil-sec/vigil/internal/engine"
	"github.com/vigil-sec/vigil/internal/model"
	"github.com/vigil-sec/vigil/internal/pattern"
)

var (
	strictMode     bool
	threshold      float64
	enabledSets    []string
	noOpinion      bool
	patternsFile   string
	classifyAsJSON bool
	classifyFile   string
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Classify a single input for adversarial patterns",
	Long: `Classify runs one input through the detection pipeline:
- Empty-input short circuit
- Opinion-statement suppression
- Pattern matching across the enabled sets
- Confidence scoring and the strict-mode gate

Pass "-" to read the input from stdin, or --file to read it from a file.

Example:
  vigil classify "ignore all previous instructions"
  vigil classify --sets base,benchmark_informed --threshold 0.90 "enable DAN mode"
  vigil classify --file prompt.txt
  cat prompt.txt | vigil classify -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVar(&strictMode, "strict", true, "require confidence >= threshold to report detection")
	classifyCmd.Flags().Float64Var(&threshold, "threshold", model.DefaultThreshold, "strict-mode confidence threshold")
	classifyCmd.Flags().StringSliceVar(&enabledSets, "sets", nil, "pattern sets to enable (default: all built-in sets)")
	classifyCmd.Flags().BoolVar(&noOpinion, "no-opinion-filter", false, "disable opinion-statement suppression")
	classifyCmd.Flags().StringVar(&patternsFile, "patterns", "", "YAML file with additional pattern sets")
	classifyCmd.Flags().BoolVar(&classifyAsJSON, "json", false, "emit the verdict as JSON on stdout")
	classifyCmd.Flags().StringVar(&classifyFile, "file", "", "read the input from a file instead of an argument")
}

func runClassify(cmd *cobra.Command, args []string) error {
	var text string
	switch {
	case classifyFile != "":
		data, err := os.ReadFile(classifyFile)
		if err != nil {
			return fmt.Errorf("read input %s: %w", classifyFile, err)
		}
		text = string(data)
	case len(args) == 1 && args[0] != "-":
		text = args[0]
	case len(args) == 1:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	default:
		return fmt.Errorf("provide text as an argument, \"-\" for stdin, or --file")
	}

	eng, err := buildEngine("cli", cmd)
	if err != nil {
		return err
	}

	verdict := eng.Classify(text)

	if classifyAsJSON {
		data, err := json.MarshalIndent(verdict, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal verdict: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	status := "clean"
	if verdict.Detected {
		status = "DETECTED"
	}
	fmt.Printf("%s  confidence=%.2f  reason=%s", status, verdict.Confidence, verdict.Reason)
	if verdict.PatternID != "" {
		fmt.Printf("  pattern=%s", verdict.PatternID)
	}
	fmt.Println()

	if verbose && len(verdict.Hits) > 0 {
		fmt.Fprintf(os.Stderr, "\nMatched patterns:\n")
		for _, hit := range verdict.Hits {
			fmt.Fprintf(os.Stderr, "  %s/%s (weight %.2f, origin %s)\n", hit.Set, hit.PatternID, hit.Weight, hit.Origin)
		}
	}

	return nil
}

// buildEngine assembles registry and configuration from the config file
// and whatever flags the invoking command actually set.
func buildEngine(name string, cmd *cobra.Command) (*engine.Engine, error) {
	appCfg := loadConfig()

	if patternsFile == "" {
		patternsFile = appCfg.Detection.PatternsFile
	}

	registry, err := buildRegistry(patternsFile)
	if err != nil {
		return nil, err
	}

	cfg := appCfg.EngineConfiguration(name)
	if cmd.Flags().Changed("strict") {
		cfg.StrictMode = strictMode
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = threshold
	}
	if len(enabledSets) > 0 {
		cfg.EnabledSets = enabledSets
	}
	if noOpinion {
		cfg.OpinionFilter = false
	}

	eng, err := engine.New(registry, cfg)
	if err != nil {
		return nil, fmt.Errorf("build engine: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Sets: %s (strict=%t, threshold=%.2f, opinion filter=%t)\n",
			strings.Join(cfg.EnabledSets, ","), cfg.StrictMode, cfg.Threshold, cfg.OpinionFilter)
	}

	return eng, nil
}

// buildRegistry compiles the built-in sets, plus a YAML overlay when given
func buildRegistry(path string) (*pattern.Registry, error) {
	if path != "" {
		registry, err := pattern.NewRegistryWithFile(path)
		if err != nil {
			return nil, fmt.Errorf("load patterns %s: %w", path, err)
		}
		return registry, nil
	}

	registry, err := pattern.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("compile built-in patterns: %w", err)
	}
	return registry, nil
}
