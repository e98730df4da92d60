package worker

import (
	"context"
	"fmt"

	"github.com/vigil-sec/vigil/internal/model"
)

// Classifier is the in-process classification contract the batch
// processor drives. The detection engine satisfies it.
type Classifier interface {
	Classify(text string) model.Verdict
}

// ClassifyJob classifies one corpus sample
type ClassifyJob struct {
	Index      int
	Sample     model.Sample
	Classifier Classifier
	Limiter    *Limiter // optional pacing, nil disables
	ConfigName string
}

// ClassifyResult is the outcome of one sample classification. A faulted
// sample carries its error and counts as not detected; one bad sample
// never aborts the corpus run.
type ClassifyResult struct {
	Index   int
	Sample  model.Sample
	Verdict model.Verdict
	Err     error
}

// GetError returns the classification error, if any
func (r *ClassifyResult) GetError() error {
	return r.Err
}

// Execute classifies the sample, isolating panics from the rest of
// the batch.
func (j *ClassifyJob) Execute(ctx context.Context) (result Result) {
	res := &ClassifyResult{Index: j.Index, Sample: j.Sample}
	result = res

	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("classify sample %d: panic: %v", j.Index, r)
			res.Verdict = model.Verdict{Reason: model.ReasonNoMatch}
		}
	}()

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, j.ConfigName); err != nil {
			res.Err = fmt.Errorf("classify sample %d: %w", j.Index, err)
			return res
		}
	}

	res.Verdict = j.Classifier.Classify(j.Sample.Prompt)
	return res
}

// BatchProcessor classifies corpora concurrently
type BatchProcessor struct {
	classifier  Classifier
	concurrency int
	limiter     *Limiter
	configName  string
}

// NewBatchProcessor creates a batch processor. A samplesPerSecond of 0
// disables pacing; pacing keeps throughput steady when the run doubles
// as a latency benchmark.
func NewBatchProcessor(classifier Classifier, concurrency int, configName string, samplesPerSecond float64, burst int) *BatchProcessor {
	var limiter *Limiter
	if samplesPerSecond > 0 {
		limiter = NewLimiter(samplesPerSecond, burst)
	}

	return &BatchProcessor{
		classifier:  classifier,
		concurrency: concurrency,
		limiter:     limiter,
		configName:  configName,
	}
}

// Process classifies every sample and returns results indexed by
// sample position. Order of completion is irrelevant; results are
// slotted back by index.
func (b *BatchProcessor) Process(ctx context.Context, samples []model.Sample) []*ClassifyResult {
	if len(samples) == 0 {
		return []*ClassifyResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	// Submit and drain concurrently. The pool's queues are bounded at
	// workers*2, so a corpus bigger than a few times the worker count
	// would wedge a submit-everything-then-collect sequence.
	go func() {
		defer pool.Close()
		for i, sample := range samples {
			pool.Submit(&ClassifyJob{
				Index:      i,
				Sample:     sample,
				Classifier: b.classifier,
				Limiter:    b.limiter,
				ConfigName: b.configName,
			})
		}
	}()

	results := pool.Drain()

	ordered := make([]*ClassifyResult, len(samples))
	for _, result := range results {
		res := result.(*ClassifyResult)
		if res.Index >= 0 && res.Index < len(ordered) {
			ordered[res.Index] = res
		}
	}

	// Cancellation can leave unprocessed slots; mark them as failures
	// so aggregation never dereferences nil.
	for i, res := range ordered {
		if res == nil {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("sample %d was never processed", i)
			}
			ordered[i] = &ClassifyResult{
				Index:   i,
				Sample:  samples[i],
				Verdict: model.Verdict{Reason: model.ReasonNoMatch},
				Err:     err,
			}
		}
	}

	return ordered
}
