package eval

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/vigil-sec/vigil/internal/model"
)

// BootstrapOptions tunes the resampling loop
type BootstrapOptions struct {
	Resamples  int   // default model.DefaultBootstrap
	MinSamples int   // below this the CI is reported as insufficient
	Workers    int   // parallelism; resamples are independent
	Seed       int64 // 0 derives a seed from the outcome vector length
}

// BootstrapCI estimates a nonparametric 95% confidence interval for the
// detection rate by resampling the binary outcome vector with
// replacement and taking the empirical 2.5th/97.5th percentiles of the
// resample means. No normality assumption is made; the detection rate
// is a bounded proportion where that assumption would be dubious.
//
// Corpora below MinSamples yield a structured insufficient-data
// interval instead of an error: an undersized corpus is an expected
// condition callers must branch on, not a fault.
func BootstrapCI(ctx context.Context, outcomes []bool, opts BootstrapOptions) (model.ConfidenceInterval, error) {
	if opts.Resamples <= 0 {
		opts.Resamples = model.DefaultBootstrap
	}
	if opts.MinSamples <= 0 {
		opts.MinSamples = model.DefaultMinSamplesCI
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	n := len(outcomes)
	if n < opts.MinSamples {
		return model.ConfidenceInterval{Insufficient: true}, nil
	}

	seed := opts.Seed
	if seed == 0 {
		seed = int64(n)
	}

	data := make([]float64, n)
	for i, detected := range outcomes {
		if detected {
			data[i] = 1
		}
	}

	// Resamples are independent; shard them across workers, each with
	// its own deterministic source so runs are reproducible.
	means := make([]float64, opts.Resamples)
	var wg sync.WaitGroup

	perWorker := (opts.Resamples + opts.Workers - 1) / opts.Workers
	for w := 0; w < opts.Workers; w++ {
		start := w * perWorker
		if start >= opts.Resamples {
			break
		}
		end := start + perWorker
		if end > opts.Resamples {
			end = opts.Resamples
		}

		wg.Add(1)
		go func(start, end int, src *rand.Rand) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if i%1024 == 0 && ctx.Err() != nil {
					return
				}
				sum := 0.0
				for j := 0; j < n; j++ {
					sum += data[src.Intn(n)]
				}
				means[i] = sum / float64(n)
			}
		}(start, end, rand.New(rand.NewSource(seed+int64(w))))
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return model.ConfidenceInterval{}, err
	}

	sort.Float64s(means)
	lower := stat.Quantile(0.025, stat.Empirical, means, nil)
	upper := stat.Quantile(0.975, stat.Empirical, means, nil)

	return model.ConfidenceInterval{
		Lower:     round2(lower * 100),
		Upper:     round2(upper * 100),
		Resamples: opts.Resamples,
	}, nil
}
