package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// DiskStore persists session content as one JSON file per topic. The
// exclusive-create insert gives at-most-once semantics across processes, not
// just goroutines.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a disk-backed content store rooted at dir
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Get retrieves stored content for a topic
func (s *DiskStore) Get(topicID string) (*model.SessionContent, error) {
	data, err := os.ReadFile(s.path(topicID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("topic %s: %w", topicID, ErrNotFound)
		}
		return nil, fmt.Errorf("read content for %s: %w", topicID, err)
	}

	var content model.SessionContent
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("decode stored content for %s: %w", topicID, err)
	}
	return &content, nil
}

// Put inserts content for a topic. The file is created exclusively, so a
// concurrent writer for the same topic fails with ErrAlreadyExists and the
// first write is kept intact.
func (s *DiskStore) Put(topicID string, content *model.SessionContent) error {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("encode content for %s: %w", topicID, err)
	}

	f, err := os.OpenFile(s.path(topicID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("topic %s: %w", topicID, ErrAlreadyExists)
		}
		return fmt.Errorf("create content file for %s: %w", topicID, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("write content for %s: %w", topicID, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close content file for %s: %w", topicID, err)
	}
	return nil
}

// TopicIDs lists stored topic ids, sorted
func (s *DiskStore) TopicIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read library dir: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *DiskStore) path(topicID string) string {
	return filepath.Join(s.dir, topicID+".json")
}
