package store

import (
	"encoding/json"
	"fmt"
	"sort"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// MemoryStore keeps session content in process memory. Entries never expire;
// the backing cache is used for its concurrency-safe conditional insert.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an in-memory content store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves stored content for a topic
func (s *MemoryStore) Get(topicID string) (*model.SessionContent, error) {
	val, found := s.cache.Get(topicID)
	if !found {
		return nil, fmt.Errorf("topic %s: %w", topicID, ErrNotFound)
	}

	var content model.SessionContent
	if err := json.Unmarshal(val.([]byte), &content); err != nil {
		return nil, fmt.Errorf("decode stored content for %s: %w", topicID, err)
	}
	return &content, nil
}

// Put inserts content for a topic. Add is atomic, so of two concurrent
// writers exactly one succeeds and the other gets ErrAlreadyExists.
func (s *MemoryStore) Put(topicID string, content *model.SessionContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode content for %s: %w", topicID, err)
	}
	if err := s.cache.Add(topicID, data, gocache.NoExpiration); err != nil {
		return fmt.Errorf("topic %s: %w", topicID, ErrAlreadyExists)
	}
	return nil
}

// TopicIDs lists stored topic ids, sorted
func (s *MemoryStore) TopicIDs() ([]string, error) {
	items := s.cache.Items()
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
