package store

import (
	"path/filepath"
	"testing"

	"github.com/mkoreshkov/veritrain/internal/model"
)

func record(topicID, date string, score, total int) model.CompletionRecord {
	return model.CompletionRecord{TopicID: topicID, Date: date, QuizScore: score, QuizTotal: total}
}

func TestProgressStore_EmptyFile(t *testing.T) {
	s, err := NewProgressStore(filepath.Join(t.TempDir(), "progress.json"))
	if err != nil {
		t.Fatalf("NewProgressStore failed: %v", err)
	}
	if len(s.Records()) != 0 {
		t.Errorf("expected no records, got %v", s.Records())
	}
	if len(s.CompletedIDs()) != 0 {
		t.Errorf("expected no completions")
	}
}

func TestProgressStore_AppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")

	s, err := NewProgressStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Append(record("t1", "2026-08-01", 8, 10)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Append(record("t2", "2026-08-02", 5, 10)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	// A fresh store reads the same records back
	reloaded, err := NewProgressStore(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	records := reloaded.Records()
	if len(records) != 2 || records[0].TopicID != "t1" || records[1].TopicID != "t2" {
		t.Errorf("unexpected records: %+v", records)
	}

	done := reloaded.CompletedIDs()
	if _, ok := done["t1"]; !ok {
		t.Error("t1 missing from completed set")
	}
	if _, ok := done["t2"]; !ok {
		t.Error("t2 missing from completed set")
	}
}

func TestProgressStore_QuizAverages(t *testing.T) {
	s, err := NewProgressStore(filepath.Join(t.TempDir(), "progress.json"))
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Append(record("t1", "2026-08-01", 5, 10))
	_ = s.Append(record("t2", "2026-08-02", 0, 0)) // unscored
	_ = s.Append(record("t1", "2026-08-03", 9, 10))

	averages := s.QuizAverages()
	if got := averages["t1"]; got != 90 {
		t.Errorf("expected latest score 90 for t1, got %v", got)
	}
	if _, ok := averages["t2"]; ok {
		t.Error("unscored completion must not produce an average")
	}
}

func TestProgressStore_WeakTopicIDs(t *testing.T) {
	s, err := NewProgressStore(filepath.Join(t.TempDir(), "progress.json"))
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Append(record("weak", "2026-08-01", 5, 10))   // 50%
	_ = s.Append(record("strong", "2026-08-02", 9, 10)) // 90%
	_ = s.Append(record("border", "2026-08-03", 3, 4))  // 75%, at threshold

	weak := s.WeakTopicIDs()
	if len(weak) != 1 || weak[0] != "weak" {
		t.Errorf("expected [weak], got %v", weak)
	}
}

func TestProgressStore_WeakRecovers(t *testing.T) {
	s, err := NewProgressStore(filepath.Join(t.TempDir(), "progress.json"))
	if err != nil {
		t.Fatal(err)
	}
	_ = s.Append(record("t1", "2026-08-01", 4, 10))
	_ = s.Append(record("t1", "2026-08-05", 9, 10))

	// The latest score is what counts
	if weak := s.WeakTopicIDs(); len(weak) != 0 {
		t.Errorf("expected recovered topic not weak, got %v", weak)
	}
}

func TestProgressStore_LastDomain(t *testing.T) {
	s, err := NewProgressStore(filepath.Join(t.TempDir(), "progress.json"))
	if err != nil {
		t.Fatal(err)
	}

	domains := map[string]string{"t1": "Privacy", "t2": "Audit"}
	lookup := func(id string) (string, bool) {
		d, ok := domains[id]
		return d, ok
	}

	if got := s.LastDomain(lookup); got != "" {
		t.Errorf("expected empty domain for empty history, got %q", got)
	}

	_ = s.Append(record("t1", "2026-08-01", 0, 0))
	_ = s.Append(record("t2", "2026-08-02", 0, 0))
	if got := s.LastDomain(lookup); got != "Audit" {
		t.Errorf("expected Audit, got %q", got)
	}

	// Unknown most-recent topic falls back to the previous known one
	_ = s.Append(record("removed", "2026-08-03", 0, 0))
	if got := s.LastDomain(lookup); got != "Audit" {
		t.Errorf("expected Audit after unknown topic, got %q", got)
	}
}
