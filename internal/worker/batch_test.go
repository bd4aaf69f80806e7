package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mkoreshkov/veritrain/internal/model"
	"github.com/mkoreshkov/veritrain/internal/store"
)

// MockGenerator implements SessionGenerator
type MockGenerator struct {
	ShouldError bool
	Calls       int32
}

func (m *MockGenerator) GenerateSession(ctx context.Context, topic model.TopicDescriptor) (*model.SessionContent, error) {
	atomic.AddInt32(&m.Calls, 1)
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("generation error")
	}
	return &model.SessionContent{
		TopicID: topic.ID,
		Domain:  topic.Domain,
		Title:   topic.Title,
	}, nil
}

func testTopics(ids ...string) []model.TopicDescriptor {
	topics := make([]model.TopicDescriptor, len(ids))
	for i, id := range ids {
		topics[i] = model.TopicDescriptor{ID: id, Title: id, Domain: "Test"}
	}
	return topics
}

func TestBatchGenerator_Run(t *testing.T) {
	gen := &MockGenerator{}
	st := store.NewMemoryStore()
	batch := NewBatchGenerator(gen, st, 2, nil)

	summary := batch.Run(context.Background(), testTopics("t1", "t2", "t3"))

	if summary.Generated != 3 {
		t.Errorf("expected 3 generated, got %d", summary.Generated)
	}
	if summary.Skipped != 0 || summary.Failed != 0 {
		t.Errorf("expected no skips or failures, got %d/%d", summary.Skipped, summary.Failed)
	}

	ids, err := st.TopicIDs()
	if err != nil {
		t.Fatalf("TopicIDs failed: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("expected 3 stored sessions, got %d", len(ids))
	}
}

func TestBatchGenerator_Run_Error(t *testing.T) {
	gen := &MockGenerator{ShouldError: true}
	st := store.NewMemoryStore()
	batch := NewBatchGenerator(gen, st, 2, nil)

	summary := batch.Run(context.Background(), testTopics("t1"))

	if summary.Failed != 1 {
		t.Errorf("expected 1 failure, got %d", summary.Failed)
	}
	if len(summary.Failures) != 1 || summary.Failures[0].TopicID != "t1" {
		t.Errorf("expected failure record for t1, got %+v", summary.Failures)
	}
	if _, err := st.Get("t1"); err == nil {
		t.Error("expected no stored content after failure")
	}
}

func TestBatchGenerator_Run_SkipsExisting(t *testing.T) {
	gen := &MockGenerator{}
	st := store.NewMemoryStore()
	if err := st.Put("t1", &model.SessionContent{TopicID: "t1"}); err != nil {
		t.Fatal(err)
	}
	batch := NewBatchGenerator(gen, st, 2, nil)

	summary := batch.Run(context.Background(), testTopics("t1", "t2"))

	if summary.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", summary.Skipped)
	}
	if summary.Generated != 1 {
		t.Errorf("expected 1 generated, got %d", summary.Generated)
	}
	if atomic.LoadInt32(&gen.Calls) != 1 {
		t.Errorf("expected 1 generation call, got %d", gen.Calls)
	}
}

func TestBatchGenerator_Run_Empty(t *testing.T) {
	batch := NewBatchGenerator(&MockGenerator{}, store.NewMemoryStore(), 2, nil)

	summary := batch.Run(context.Background(), nil)
	if summary.Generated != 0 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}

func TestGenerateJob_StoreConflict(t *testing.T) {
	st := store.NewMemoryStore()

	// Generator that stores the same topic before the job's own Put runs,
	// simulating a faster concurrent worker.
	gen := &racingGenerator{store: st}
	job := &GenerateJob{
		Topic:     model.TopicDescriptor{ID: "t1"},
		Generator: gen,
		Store:     st,
	}

	result := job.Execute(context.Background()).(*GenerateResult)
	if !result.Skipped {
		t.Errorf("expected losing writer to be skipped, got %+v", result)
	}

	// The first write wins
	content, err := st.Get("t1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if content.Title != "winner" {
		t.Errorf("expected first write kept, got %q", content.Title)
	}
}

type racingGenerator struct {
	store store.Store
}

func (g *racingGenerator) GenerateSession(ctx context.Context, topic model.TopicDescriptor) (*model.SessionContent, error) {
	if err := g.store.Put(topic.ID, &model.SessionContent{TopicID: topic.ID, Title: "winner"}); err != nil {
		return nil, err
	}
	return &model.SessionContent{TopicID: topic.ID, Title: "loser"}, nil
}

func TestShard(t *testing.T) {
	topics := testTopics("t0", "t1", "t2", "t3", "t4")

	all, err := Shard(topics, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("expected all topics without sharding, got %d", len(all))
	}

	shard0, err := Shard(topics, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	shard1, err := Shard(topics, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(shard0) != 3 || len(shard1) != 2 {
		t.Errorf("expected shards 3/2, got %d/%d", len(shard0), len(shard1))
	}
	if shard0[0].ID != "t0" || shard1[0].ID != "t1" {
		t.Errorf("unexpected shard assignment: %v / %v", shard0, shard1)
	}

	if _, err := Shard(topics, 3, 2); err == nil {
		t.Error("expected error for out of range worker index")
	}
}

func TestGenerateResult_GetError(t *testing.T) {
	r1 := &GenerateResult{TopicID: "t1"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("generation failed")
	r2 := &GenerateResult{TopicID: "t1", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
