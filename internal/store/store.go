// Package store persists generated session content and learner progress.
// Inserts are at-most-once per topic: the first writer wins and later writers
// get ErrAlreadyExists, which keeps concurrent batch workers from burning
// generation budget on the same topic twice.
package store

import (
	"errors"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// ErrAlreadyExists is returned by Put when content for the topic is present
var ErrAlreadyExists = errors.New("content already exists for topic")

// ErrNotFound is returned by Get when no content exists for the topic
var ErrNotFound = errors.New("no content found for topic")

// Store defines the content library interface
type Store interface {
	// Get returns the stored session content for a topic
	Get(topicID string) (*model.SessionContent, error)

	// Put inserts content for a topic. Returns ErrAlreadyExists when content
	// for the topic is already stored; the existing content is kept.
	Put(topicID string, content *model.SessionContent) error

	// TopicIDs lists every topic id with stored content, sorted
	TopicIDs() ([]string, error)
}
