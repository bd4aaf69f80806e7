package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// Limiter throttles calls by key. Satisfied by worker.Limiter.
type Limiter interface {
	Wait(ctx context.Context, key string) error
}

// Client wraps a provider with JSON extraction and citation handling. One
// client is shared across concurrent section generations; it holds no mutable
// state beyond the provider and limiter.
type Client struct {
	provider Provider
	limiter  Limiter
}

// NewClient creates a client around a provider. The limiter may be nil.
func NewClient(provider Provider, limiter Limiter) *Client {
	return &Client{provider: provider, limiter: limiter}
}

// Provider returns the wrapped provider
func (c *Client) Provider() Provider {
	return c.provider
}

func (c *Client) invoke(ctx context.Context, req InvokeRequest) (*InvokeResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.provider.Name()); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	return c.provider.Invoke(ctx, req)
}

// Generate invokes the capability with a bounded search budget and extracts
// the first balanced JSON object into T. Citations are deduplicated by URL.
// A *ParseError is returned when the response cannot be reduced to valid
// JSON; retry policy belongs to the caller.
func Generate[T any](ctx context.Context, c *Client, prompt string, maxSearches int) (T, []model.Citation, error) {
	var zero T

	resp, err := c.invoke(ctx, InvokeRequest{Prompt: prompt, MaxSearchUses: maxSearches})
	if err != nil {
		return zero, nil, fmt.Errorf("invoke %s: %w", c.provider.Name(), err)
	}

	content, err := decode[T](resp.Text)
	if err != nil {
		return zero, nil, err
	}

	return content, DedupeCitations(resp.Citations), nil
}

// GenerateBasic invokes the capability without search tooling and extracts
// the first balanced JSON object into T. Used for verification calls.
func GenerateBasic[T any](ctx context.Context, c *Client, prompt string) (T, error) {
	var zero T

	resp, err := c.invoke(ctx, InvokeRequest{Prompt: prompt})
	if err != nil {
		return zero, fmt.Errorf("invoke %s: %w", c.provider.Name(), err)
	}

	return decode[T](resp.Text)
}

func decode[T any](raw string) (T, error) {
	var zero T

	text := CleanResponse(raw)
	obj, err := FirstJSONObject(text)
	if err != nil {
		return zero, err
	}

	var content T
	if err := json.Unmarshal([]byte(obj), &content); err != nil {
		return zero, &ParseError{Reason: err.Error(), Raw: obj}
	}
	return content, nil
}

// DedupeCitations returns the citations with exactly one entry per URL,
// keeping the first occurrence.
func DedupeCitations(citations []model.Citation) []model.Citation {
	seen := make(map[string]bool, len(citations))
	var unique []model.Citation
	for _, c := range citations {
		if c.URL == "" || seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		unique = append(unique, c)
	}
	return unique
}
