package worker

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkoreshkov/veritrain/internal/model"
	"github.com/mkoreshkov/veritrain/internal/store"
)

// SessionGenerator produces a full training session for one topic
type SessionGenerator interface {
	GenerateSession(ctx context.Context, topic model.TopicDescriptor) (*model.SessionContent, error)
}

// GenerateJob generates and stores content for one topic
type GenerateJob struct {
	Topic     model.TopicDescriptor
	Generator SessionGenerator
	Store     store.Store
}

// GenerateResult is the outcome of one topic generation
type GenerateResult struct {
	TopicID string
	Skipped bool
	Error   error
}

// GetError returns the job error, nil for skips
func (r *GenerateResult) GetError() error {
	return r.Error
}

// Execute generates the session and inserts it into the store. A topic whose
// content already exists (stored before generation, or stored by a faster
// concurrent writer) is reported as skipped, not failed.
func (j *GenerateJob) Execute(ctx context.Context) Result {
	if _, err := j.Store.Get(j.Topic.ID); err == nil {
		return &GenerateResult{TopicID: j.Topic.ID, Skipped: true}
	}

	content, err := j.Generator.GenerateSession(ctx, j.Topic)
	if err != nil {
		return &GenerateResult{TopicID: j.Topic.ID, Error: err}
	}

	if err := j.Store.Put(j.Topic.ID, content); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return &GenerateResult{TopicID: j.Topic.ID, Skipped: true}
		}
		return &GenerateResult{TopicID: j.Topic.ID, Error: err}
	}

	return &GenerateResult{TopicID: j.Topic.ID}
}

// Summary aggregates a batch run
type Summary struct {
	Generated int
	Skipped   int
	Failed    int
	Failures  []GenerateResult
}

// BatchGenerator fills the content library for many topics concurrently.
// A batch can be sharded across independent processes: worker i of n takes
// the topics whose index satisfies idx % n == i, and the store's insert
// conflict handles any overlap.
type BatchGenerator struct {
	generator   SessionGenerator
	store       store.Store
	concurrency int
	log         *zap.Logger
}

// NewBatchGenerator creates a batch generator
func NewBatchGenerator(generator SessionGenerator, st store.Store, concurrency int, log *zap.Logger) *BatchGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchGenerator{
		generator:   generator,
		store:       st,
		concurrency: concurrency,
		log:         log,
	}
}

// Shard returns the topics assigned to one worker of a sharded batch.
// workerIndex is zero-based; totalWorkers of 0 or 1 means no sharding.
func Shard(topics []model.TopicDescriptor, workerIndex, totalWorkers int) ([]model.TopicDescriptor, error) {
	if totalWorkers <= 1 {
		return topics, nil
	}
	if workerIndex < 0 || workerIndex >= totalWorkers {
		return nil, fmt.Errorf("worker index %d out of range for %d workers", workerIndex, totalWorkers)
	}

	var assigned []model.TopicDescriptor
	for i, t := range topics {
		if i%totalWorkers == workerIndex {
			assigned = append(assigned, t)
		}
	}
	return assigned, nil
}

// Run generates content for every topic and returns the batch summary. A
// cancelled context stops new jobs; jobs already running finish or fail on
// their own context checks.
func (b *BatchGenerator) Run(ctx context.Context, topics []model.TopicDescriptor) Summary {
	pool := NewPool(b.concurrency)
	pool.Start()

	drained := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-drained:
		}
	}()

	for _, topic := range topics {
		pool.Submit(&GenerateJob{Topic: topic, Generator: b.generator, Store: b.store})
	}
	results := pool.Wait()
	close(drained)

	var summary Summary
	for _, r := range results {
		gr := r.(*GenerateResult)
		switch {
		case gr.Skipped:
			summary.Skipped++
			b.log.Info("topic skipped, content exists", zap.String("topic", gr.TopicID))
		case gr.Error != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, *gr)
			b.log.Warn("topic generation failed",
				zap.String("topic", gr.TopicID),
				zap.Error(gr.Error))
		default:
			summary.Generated++
			b.log.Info("topic generated", zap.String("topic", gr.TopicID))
		}
	}
	return summary
}
