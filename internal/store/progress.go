package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// weakScoreThreshold marks a completed topic as needing review when its quiz
// average percentage falls below it.
const weakScoreThreshold = 75

// ProgressStore tracks completion records in a single JSON file. Records are
// append-only; completing a topic again adds a new record and the derived
// views use the latest scores.
type ProgressStore struct {
	mu      sync.Mutex
	path    string
	records []model.CompletionRecord
}

// NewProgressStore loads the progress file, creating an empty store when the
// file does not exist yet.
func NewProgressStore(path string) (*ProgressStore, error) {
	s := &ProgressStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read progress file: %w", err)
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("parse progress file: %w", err)
	}
	return s, nil
}

// Append records a completion and persists the file
func (s *ProgressStore) Append(record model.CompletionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	return nil
}

// Records returns a copy of all completion records in append order
func (s *ProgressStore) Records() []model.CompletionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.CompletionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// CompletedIDs returns the set of completed topic ids
func (s *ProgressStore) CompletedIDs() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	done := make(map[string]struct{}, len(s.records))
	for _, r := range s.records {
		done[r.TopicID] = struct{}{}
	}
	return done
}

// QuizAverages returns each completed topic's latest quiz score as a
// percentage. Topics completed without a scored quiz are absent.
func (s *ProgressStore) QuizAverages() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	averages := make(map[string]float64)
	for _, r := range s.records {
		if r.QuizTotal <= 0 {
			continue
		}
		averages[r.TopicID] = 100 * float64(r.QuizScore) / float64(r.QuizTotal)
	}
	return averages
}

// WeakTopicIDs returns completed topics whose latest quiz average is below
// the review threshold, sorted by record order.
func (s *ProgressStore) WeakTopicIDs() []string {
	averages := s.QuizAverages()

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(averages))
	var weak []string
	for _, r := range s.records {
		avg, scored := averages[r.TopicID]
		if !scored || avg >= weakScoreThreshold || seen[r.TopicID] {
			continue
		}
		seen[r.TopicID] = true
		weak = append(weak, r.TopicID)
	}
	return weak
}

// LastDomain returns the domain of the most recent completion given a lookup
// from topic id to domain. Empty when there is no history or the last topic
// is unknown.
func (s *ProgressStore) LastDomain(domainOf func(topicID string) (string, bool)) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.records) - 1; i >= 0; i-- {
		if domain, ok := domainOf(s.records[i].TopicID); ok {
			return domain
		}
	}
	return ""
}
