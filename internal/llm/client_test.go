package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// stubProvider implements Provider for tests
type stubProvider struct {
	response  *InvokeResponse
	err       error
	lastReq   InvokeRequest
	callCount int
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Invoke(ctx context.Context, req InvokeRequest) (*InvokeResponse, error) {
	p.callCount++
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return p.response, nil
}

func (p *stubProvider) IsAvailable(ctx context.Context) bool { return true }

type testPayload struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

func TestGenerate(t *testing.T) {
	provider := &stubProvider{
		response: &InvokeResponse{
			Text: "Here you go:\n```json\n{\"title\":\"SOC 2\",\"count\":3}\n```",
			Citations: []model.Citation{
				{URL: "https://example.com/a", Title: "A"},
				{URL: "https://example.com/b", Title: "B"},
				{URL: "https://example.com/a", Title: "A again"},
			},
		},
	}
	client := NewClient(provider, nil)

	content, citations, err := Generate[testPayload](context.Background(), client, "prompt", 5)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if content.Title != "SOC 2" || content.Count != 3 {
		t.Errorf("unexpected content: %+v", content)
	}
	if provider.lastReq.MaxSearchUses != 5 {
		t.Errorf("expected search budget 5, got %d", provider.lastReq.MaxSearchUses)
	}

	// Citations deduplicated by URL, first occurrence kept
	if len(citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(citations))
	}
	if citations[0].Title != "A" || citations[1].Title != "B" {
		t.Errorf("unexpected citations: %+v", citations)
	}
}

func TestGenerate_InvokeError(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	client := NewClient(provider, nil)

	_, _, err := Generate[testPayload](context.Background(), client, "prompt", 0)
	if err == nil {
		t.Fatal("expected error")
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		t.Error("transport error must not be a ParseError")
	}
}

func TestGenerate_ParseError(t *testing.T) {
	provider := &stubProvider{response: &InvokeResponse{Text: "I could not produce JSON, sorry."}}
	client := NewClient(provider, nil)

	_, _, err := Generate[testPayload](context.Background(), client, "prompt", 0)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestGenerate_TypeMismatchIsParseError(t *testing.T) {
	provider := &stubProvider{response: &InvokeResponse{Text: `{"title":"ok","count":"not a number"}`}}
	client := NewClient(provider, nil)

	_, _, err := Generate[testPayload](context.Background(), client, "prompt", 0)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestGenerateBasic(t *testing.T) {
	provider := &stubProvider{response: &InvokeResponse{Text: `{"title":"audit","count":1}`}}
	client := NewClient(provider, nil)

	content, err := GenerateBasic[testPayload](context.Background(), client, "audit prompt")
	if err != nil {
		t.Fatalf("GenerateBasic failed: %v", err)
	}
	if content.Title != "audit" {
		t.Errorf("unexpected content: %+v", content)
	}
	if provider.lastReq.MaxSearchUses != 0 {
		t.Errorf("basic generation must not request searches, got %d", provider.lastReq.MaxSearchUses)
	}
}

// blockedLimiter always returns its error
type blockedLimiter struct {
	err error
}

func (l *blockedLimiter) Wait(ctx context.Context, key string) error { return l.err }

func TestClient_LimiterError(t *testing.T) {
	provider := &stubProvider{response: &InvokeResponse{Text: `{}`}}
	client := NewClient(provider, &blockedLimiter{err: context.Canceled})

	_, err := GenerateBasic[testPayload](context.Background(), client, "prompt")
	if err == nil {
		t.Fatal("expected error from limiter")
	}
	if provider.callCount != 0 {
		t.Errorf("provider must not be invoked when the limiter refuses, got %d calls", provider.callCount)
	}
}

func TestDedupeCitations_EmptyURL(t *testing.T) {
	citations := []model.Citation{
		{URL: "", Title: "no url"},
		{URL: "https://example.com", Title: "keep"},
	}
	unique := DedupeCitations(citations)
	if len(unique) != 1 || unique[0].Title != "keep" {
		t.Errorf("unexpected result: %+v", unique)
	}
}
